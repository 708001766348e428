package terminal

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"

	"repofind/internal/ui/input"
)

// readBufferSize is large enough for a pasted line in one read
const readBufferSize = 1024

// keyReader decodes key presses from r on its own goroutine
type keyReader struct {
	cr   cancelreader.CancelReader
	keys chan tea.KeyMsg
	stop chan struct{}
	done chan struct{}
	err  error // valid once done is closed
}

func newKeyReader(r io.Reader) (*keyReader, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}
	kr := &keyReader{
		cr:   cr,
		keys: make(chan tea.KeyMsg, 64),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go kr.run()
	return kr, nil
}

func (r *keyReader) run() {
	defer close(r.done)

	var dec input.Decoder
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.cr.Read(buf)
		for _, k := range dec.Decode(buf[:n]) {
			select {
			case r.keys <- k:
			case <-r.stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				r.err = err
			}
			return
		}
	}
}

// close stops the goroutine. Readers that cannot be canceled are left
// blocked in Read; their goroutine exits with the process.
func (r *keyReader) close() error {
	canceled := r.cr.Cancel()
	close(r.stop)
	if canceled {
		<-r.done
	}
	return r.cr.Close()
}
