package protos

import (
	"fmt"
	"io"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// output writes prototypes and trace lines to w and remembers the first
// write error so the match loop can stop on it.
type output struct {
	w   io.Writer
	err error
}

func (o *output) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *output) prototype(rec Record, src *Source) {
	o.printf("%s\n", rec.Prototype(src))
}

// trace returns the debug hook for unclassified captures. Each capture is
// printed as `name: "text"`.
func (o *output) trace(src *Source) UnclassifiedFunc {
	return func(captureName string, node sitter.Node) {
		o.printf("%s: %q\n", captureName, src.Text(&node))
	}
}
