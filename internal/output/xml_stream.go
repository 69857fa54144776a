package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/treetouch/internal/services/stream"
)

type xmlStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	collector reportCollector
}

// NewXMLStreamRenderer collects outcomes and writes a single XML report on Flush.
func NewXMLStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	if event.Kind == stream.EventKindWarning && event.Message != nil && renderer.stderr != nil {
		if _, err := fmt.Fprintln(renderer.stderr, event.Message.Message); err != nil {
			return err
		}
	}
	renderer.collector.add(event)
	return nil
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	if _, err := io.WriteString(renderer.stdout, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(renderer.stdout)
	encoder.Indent("", "  ")
	if err := encoder.Encode(renderer.collector.document()); err != nil {
		return err
	}
	if err := encoder.Flush(); err != nil {
		return err
	}
	_, err := renderer.stdout.Write([]byte("\n"))
	return err
}
