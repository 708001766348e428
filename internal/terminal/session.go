package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Fallback size used when the terminal cannot report its own
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// DefaultTTYPath is the controlling terminal opened by default
const DefaultTTYPath = "/dev/tty"

var (
	// ErrNotTerminal is returned when the session's input is not a terminal
	ErrNotTerminal = errors.New("input is not a terminal")
	// ErrClosed is returned by Poll after the session has been closed
	ErrClosed = errors.New("terminal session closed")
)

// Options configures Open
type Options struct {
	// TTYPath is opened for both input and output. Empty means
	// DefaultTTYPath; when it cannot be opened stdin and stdout are used.
	TTYPath string
	// Input and Output replace the terminal device when both are set
	Input  *os.File
	Output *os.File
	Logger *zap.Logger
}

// Session is an open interactive terminal in raw mode on the alternate
// screen.
type Session struct {
	in      *os.File
	out     *os.File
	ownsTTY bool
	saved   *term.State
	reader  *keyReader
	w       *bufio.Writer
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open prepares the terminal. On failure every step already taken is
// undone before the error is returned.
func Open(opts Options) (_ *Session, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{logger: logger}

	s.in, s.out, s.ownsTTY = openDevice(opts, logger)
	defer func() {
		if err != nil && s.ownsTTY {
			_ = s.in.Close()
		}
	}()

	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	s.saved, err = term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		if err != nil {
			_ = term.Restore(fd, s.saved)
		}
	}()

	s.w = bufio.NewWriterSize(s.out, 64*1024)
	if _, err = s.out.WriteString(ansi.SetAltScreenSaveCursorMode + ansi.ShowCursor); err != nil {
		return nil, fmt.Errorf("failed to enter alternate screen: %w", err)
	}
	defer func() {
		if err != nil {
			_, _ = s.out.WriteString(ansi.ResetAltScreenSaveCursorMode)
		}
	}()

	s.reader, err = newKeyReader(s.in)
	if err != nil {
		return nil, fmt.Errorf("failed to start input reader: %w", err)
	}

	logger.Debug("terminal session opened", zap.String("tty", s.in.Name()))
	return s, nil
}

func openDevice(opts Options, logger *zap.Logger) (in, out *os.File, owned bool) {
	if opts.Input != nil && opts.Output != nil {
		return opts.Input, opts.Output, false
	}
	path := opts.TTYPath
	if path == "" {
		path = DefaultTTYPath
	}
	tty, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		logger.Debug("controlling terminal unavailable, using stdio",
			zap.String("path", path), zap.Error(err))
		return os.Stdin, os.Stdout, false
	}
	return tty, tty, true
}

// Run opens a session, calls fn with it and closes it again, also when fn
// panics. The panic is re-raised after the terminal is restored.
func Run(ctx context.Context, opts Options, fn func(context.Context, *Session) error) (err error) {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = s.Close()
			panic(r)
		}
		err = errors.Join(err, s.Close())
	}()
	return fn(ctx, s)
}

// Size returns the current terminal size, read fresh on every call
func (s *Session) Size() (width, height int) {
	w, h, err := term.GetSize(int(s.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// Output is the terminal device the session draws on
func (s *Session) Output() *os.File {
	return s.out
}

// Write buffers p until the next Flush
func (s *Session) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush sends buffered output to the terminal
func (s *Session) Flush() error {
	return s.w.Flush()
}

// Poll waits up to timeout for a key press. ok is false when none arrived
// in time. Once input is exhausted Poll returns io.EOF.
func (s *Session) Poll(timeout time.Duration) (msg tea.KeyMsg, ok bool, err error) {
	r := s.reader
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg = <-r.keys:
		return msg, true, nil
	case <-r.stop:
		return msg, false, ErrClosed
	case <-r.done:
		select {
		case msg = <-r.keys:
			return msg, true, nil
		default:
		}
		if r.err != nil {
			return msg, false, r.err
		}
		return msg, false, io.EOF
	case <-timer.C:
		return msg, false, nil
	}
}

// Close restores the terminal: input reader, screen, modes and device.
// Only the first call does any work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.reader.close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop input reader: %w", err))
		}
		if err := s.w.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush output: %w", err))
		}
		restore := ansi.ResetStyle + ansi.ShowCursor + ansi.ResetAltScreenSaveCursorMode
		if _, err := s.out.WriteString(restore); err != nil {
			errs = append(errs, fmt.Errorf("failed to leave alternate screen: %w", err))
		}
		if err := term.Restore(int(s.in.Fd()), s.saved); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore terminal mode: %w", err))
		}
		if s.ownsTTY {
			if err := s.in.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close terminal: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
		s.logger.Debug("terminal session closed", zap.Error(s.closeErr))
	})
	return s.closeErr
}
