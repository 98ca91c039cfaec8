package ansi

import (
	"os"

	"golang.org/x/term"
)

// Terminal controls the line discipline of the terminal behind a backend.
type Terminal interface {
	// MakeRaw puts the terminal into raw mode and returns a func that
	// restores the previous mode.
	MakeRaw() (restore func() error, err error)
	// Size returns the terminal dimensions in cells.
	Size() (width, height int, err error)
}

// FileTerminal is a Terminal over the file descriptors of a tty.
type FileTerminal struct {
	In  *os.File
	Out *os.File
}

func (t FileTerminal) MakeRaw() (func() error, error) {
	fd := int(t.In.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, state) }, nil
}

func (t FileTerminal) Size() (int, int, error) {
	return term.GetSize(int(t.Out.Fd()))
}

// IsTerminal reports whether f is attached to a tty.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
