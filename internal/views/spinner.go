package views

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// SpinnerInterval is the time between frames.
const SpinnerInterval = 300 * time.Millisecond

// Spinner draws "label." "label.." "label..." on one line until stopped.
type Spinner struct {
	w     io.Writer
	label string
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// StartSpinner starts drawing on w.
func StartSpinner(w io.Writer, label string) *Spinner {
	s := &Spinner{w: w, label: label, stop: make(chan struct{}), done: make(chan struct{})}
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer close(s.done)
	t := time.NewTicker(SpinnerInterval)
	defer t.Stop()
	for n := 1; ; n = n%3 + 1 {
		fmt.Fprintf(s.w, "\r%s%-3s", s.label, strings.Repeat(".", n))
		select {
		case <-s.stop:
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.label)+3))
			return
		case <-t.C:
		}
	}
}

// Stop clears the line and waits for the spinner to exit.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
