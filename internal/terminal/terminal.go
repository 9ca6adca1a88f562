// Package terminal owns the screen the frames are drawn on: alternate screen
// handling, size queries and the escape sequences the renderer emits.
package terminal

import (
	"io"
	"os"
	"sync"
)

// Escape sequences
const (
	ClearScreen    = "\x1b[2J\x1b[1;1H"
	EnterAltScreen = "\x1b[?1049h"
	LeaveAltScreen = "\x1b[?1049l"
)

// DefaultWidth is reported when the width cannot be determined
const DefaultWidth = 80

// Terminal wraps the output stream. Writes pass through unchanged.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	fd        int
	tty       bool
	altScreen bool
	entered   bool
}

// New wraps f. The alternate screen is used only when altScreen is set and f
// is a terminal.
func New(f *os.File, altScreen bool) *Terminal {
	fd := int(f.Fd())
	return &Terminal{
		out:       f,
		fd:        fd,
		tty:       isTerminal(fd),
		altScreen: altScreen,
	}
}

// NewWriter wraps an arbitrary writer, treated as a terminal when tty is set.
func NewWriter(w io.Writer, tty, altScreen bool) *Terminal {
	return &Terminal{
		out:       w,
		fd:        -1,
		tty:       tty,
		altScreen: altScreen,
	}
}

// IsTerminal reports whether the output is a TTY
func (t *Terminal) IsTerminal() bool {
	return t.tty
}

// Enter switches to the alternate screen when enabled
func (t *Terminal) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tty || !t.altScreen || t.entered {
		return nil
	}
	if _, err := io.WriteString(t.out, EnterAltScreen); err != nil {
		return err
	}
	t.entered = true
	return nil
}

// Restore leaves the alternate screen. Safe to call more than once.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.entered {
		return nil
	}
	t.entered = false
	_, err := io.WriteString(t.out, LeaveAltScreen)
	return err
}

// Width returns the number of columns, or DefaultWidth when unknown
func (t *Terminal) Width() int {
	if t.fd >= 0 && t.tty {
		if w := windowWidth(t.fd); w > 0 {
			return w
		}
	}
	return DefaultWidth
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}
