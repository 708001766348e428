// Package ui runs the interactive finder: it polls the terminal for key
// presses, applies them to the finder state and redraws the screen.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"repofind/internal/finder"
	"repofind/internal/ui/input"
	"repofind/internal/ui/views"
)

// Default loop timings
const (
	DefaultPollInterval    = 10 * time.Millisecond
	DefaultRefreshInterval = 100 * time.Millisecond
)

// Terminal is what the loop needs from a terminal session
type Terminal interface {
	io.Writer
	Flush() error
	Size() (width, height int)
	Poll(timeout time.Duration) (tea.KeyMsg, bool, error)
}

// Outcome tells how an interactive session ended
type Outcome int

const (
	OutcomeCanceled Outcome = iota
	OutcomeSelected
)

func (o Outcome) String() string {
	if o == OutcomeSelected {
		return "selected"
	}
	return "canceled"
}

// Result is returned by Program.Run
type Result struct {
	Outcome   Outcome
	Selection string
}

// Options configures a Program
type Options struct {
	KeyMap          input.KeyMap
	Styles          *views.Styles
	ShowHelp        bool
	PollInterval    time.Duration
	RefreshInterval time.Duration
	Logger          *zap.Logger
}

// Program is the finder's event loop
type Program struct {
	handle *finder.Handle
	term   Terminal
	opts   Options
	logger *zap.Logger

	lastDraw time.Time
}

// NewProgram creates an event loop drawing handle on term. Zero intervals
// fall back to the defaults.
func NewProgram(handle *finder.Handle, term Terminal, opts Options) *Program {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Styles == nil {
		opts.Styles = views.PlainStyles()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Program{handle: handle, term: term, opts: opts, logger: logger}
}

// Run draws the finder and processes keys until the user confirms a
// selection or cancels. Canceling ctx or running out of input cancels
// the session. Errors writing to the terminal are returned as is.
func (p *Program) Run(ctx context.Context) (Result, error) {
	canceled := Result{Outcome: OutcomeCanceled}

	if err := p.draw(); err != nil {
		return canceled, err
	}
	for {
		if ctx.Err() != nil {
			p.logger.Debug("finder canceled by context", zap.Error(ctx.Err()))
			return canceled, nil
		}

		msg, ok, err := p.term.Poll(p.opts.PollInterval)
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.logger.Debug("input closed, canceling")
				return canceled, nil
			}
			return canceled, fmt.Errorf("failed to read input: %w", err)
		}

		if ok {
			if res, done := p.handleKey(msg); done {
				return res, nil
			}
			if err := p.draw(); err != nil {
				return canceled, err
			}
			continue
		}

		if time.Since(p.lastDraw) >= p.opts.RefreshInterval {
			if err := p.draw(); err != nil {
				return canceled, err
			}
		}
	}
}

// handleKey applies one key press. done reports whether the session ended.
func (p *Program) handleKey(msg tea.KeyMsg) (res Result, done bool) {
	action := p.opts.KeyMap.Action(msg)
	switch action {
	case input.ActionConfirm:
		sel, ok := p.handle.Current()
		if !ok {
			return res, false
		}
		return Result{Outcome: OutcomeSelected, Selection: sel}, true
	case input.ActionCancel:
		return Result{Outcome: OutcomeCanceled}, true
	case input.ActionNone:
		p.logger.Debug("unbound key", zap.String("key", msg.String()))
		return res, false
	}

	p.handle.Update(func(s *finder.State) {
		switch action {
		case input.ActionInsert:
			for _, r := range msg.Runes {
				s.InsertChar(r)
			}
		case input.ActionBackspace:
			s.DeleteBeforeCursor()
		case input.ActionDelete:
			s.DeleteAtCursor()
		case input.ActionClearQuery:
			s.ClearQuery()
		case input.ActionLeft:
			s.MoveCursorLeft()
		case input.ActionRight:
			s.MoveCursorRight()
		case input.ActionHome:
			s.MoveCursorHome()
		case input.ActionEnd:
			s.MoveCursorEnd()
		case input.ActionUp:
			s.MoveSelectionUp()
		case input.ActionDown:
			s.MoveSelectionDown()
		case input.ActionPageUp:
			s.PageUp()
		case input.ActionPageDown:
			s.PageDown()
		}
	})
	return res, false
}

// draw composes and writes a full frame at the current terminal size
func (p *Program) draw() error {
	w, h := p.term.Size()
	snap := p.handle.Frame(views.PageSize(h))

	var opts views.Options
	if p.opts.ShowHelp {
		opts.Help = views.HelpLine(p.opts.KeyMap, w)
	}
	frame := views.Compose(snap, w, h, opts)

	if _, err := p.term.Write(frame.Encode(p.opts.Styles)); err != nil {
		return fmt.Errorf("failed to draw: %w", err)
	}
	if err := p.term.Flush(); err != nil {
		return fmt.Errorf("failed to draw: %w", err)
	}
	p.lastDraw = time.Now()
	return nil
}
