package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message.
type Spinner struct {
	out     io.Writer
	animate bool
	message string
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to out. It only animates when out is
// a terminal; otherwise Start and Stop print nothing.
func NewSpinner(out io.Writer, message string) *Spinner {
	animate := false
	if f, ok := out.(*os.File); ok {
		animate = isatty.IsTerminal(f.Fd())
	}
	return &Spinner{
		out:     out,
		animate: animate,
		message: message,
		frames:  defaultFrames,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.animate {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(s.frames[i%len(s.frames)]), s.message)
			}
		}
	}()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	if !s.animate {
		return
	}
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}
