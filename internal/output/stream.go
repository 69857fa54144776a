// Package output renders builder outcome events.
package output

import (
	"fmt"
	"io"

	"github.com/temirov/treetouch/internal/services/stream"
	"github.com/temirov/treetouch/internal/types"
)

const (
	unsupportedFormatMessage = "unsupported format %q"
)

type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewRenderer returns the renderer for format. Raw output is only written when verbose is set.
func NewRenderer(format string, stdout, stderr io.Writer, verbose bool) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw:
		return NewRawStreamRenderer(stdout, stderr, verbose), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout, stderr), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, stderr), nil
	default:
		return nil, fmt.Errorf(unsupportedFormatMessage, format)
	}
}
