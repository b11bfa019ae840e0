package loading

import (
	"fmt"
	"io"
	"sync"
)

// clearLine returns the cursor to column zero and erases the line.
const clearLine = "\r\x1b[2K"

// WriterDisplay renders on a single terminal line of w.
type WriterDisplay struct {
	w      io.Writer
	mu     sync.Mutex
	hidden bool
}

func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

func (d *WriterDisplay) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hidden {
		return
	}
	fmt.Fprint(d.w, clearLine+text)
}

// Hide erases the line. Later SetText calls are ignored.
func (d *WriterDisplay) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hidden {
		return
	}
	d.hidden = true
	fmt.Fprint(d.w, clearLine)
}
