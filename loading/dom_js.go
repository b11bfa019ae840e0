//go:build js && wasm

package loading

import (
	"errors"
	"fmt"
	"syscall/js"
)

// DefaultElementID is the id of the page element showing progress.
const DefaultElementID = "loading"

// ErrElementNotFound is returned when the page has no element with the id.
var ErrElementNotFound = errors.New("loading: element not found")

// DOMDisplay writes to a page element's textContent.
type DOMDisplay struct {
	element js.Value
}

// NewDOMDisplay looks the element up once.
func NewDOMDisplay(id string) (*DOMDisplay, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return &DOMDisplay{element: el}, nil
}

func (d *DOMDisplay) SetText(text string) {
	d.element.Set("textContent", text)
}

func (d *DOMDisplay) Hide() {
	d.element.Get("style").Set("display", "none")
}
