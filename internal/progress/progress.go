package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Event types.
const (
	TypeStep  = "step"
	TypeDone  = "done"
	TypeError = "error"
)

// Event represents a single progress update during analysis.
type Event struct {
	Type    string `json:"type"`              // "step", "done", "error"
	Message string `json:"message,omitempty"` // human-readable message
}

// Emitter receives progress events. Implementations must be safe for
// concurrent use; the pipeline emits from both remote calls at once.
type Emitter interface {
	Emit(event Event)
}

// Nop discards all events.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(Event) {}

// TextEmitter formats progress events as plain lines. Error events are left
// to the caller to report.
type TextEmitter struct {
	W  io.Writer
	mu sync.Mutex
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Type {
	case TypeStep:
		fmt.Fprintf(e.W, "  %s...\n", ev.Message)
	case TypeDone:
		fmt.Fprintf(e.W, "  %s\n", ev.Message)
	}
}

// SpinnerEmitter shows a spinner on a terminal while the remote calls are in
// flight. A step event starts it (or updates its suffix); done and error stop it.
type SpinnerEmitter struct {
	s       *spinner.Spinner
	mu      sync.Mutex
	running bool
}

// NewSpinnerEmitter creates a spinner writing to w.
func NewSpinnerEmitter(w io.Writer) *SpinnerEmitter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &SpinnerEmitter{s: s}
}

// Emit implements Emitter.
func (e *SpinnerEmitter) Emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Type {
	case TypeStep:
		e.s.Lock()
		e.s.Suffix = " " + ev.Message
		e.s.Unlock()
		if !e.running {
			e.s.Start()
			e.running = true
		}
	case TypeDone, TypeError:
		if e.running {
			e.s.Stop()
			e.running = false
		}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ForStderr picks the emitter for CLI use: plain text when verbose, a spinner
// when stderr is a terminal, otherwise nothing.
func ForStderr(verbose bool) Emitter {
	switch {
	case verbose:
		return &TextEmitter{W: os.Stderr}
	case IsTerminal(os.Stderr):
		return NewSpinnerEmitter(os.Stderr)
	default:
		return Nop{}
	}
}
