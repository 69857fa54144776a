package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/treetouch/internal/services/stream"
)

type jsonStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	collector reportCollector
}

// NewJSONStreamRenderer collects outcomes and writes a single indented JSON report on Flush.
func NewJSONStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &jsonStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	if event.Kind == stream.EventKindWarning && event.Message != nil && renderer.stderr != nil {
		if _, err := fmt.Fprintln(renderer.stderr, event.Message.Message); err != nil {
			return err
		}
	}
	renderer.collector.add(event)
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	encoder := json.NewEncoder(renderer.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(renderer.collector.document())
}
