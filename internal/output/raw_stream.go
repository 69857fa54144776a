package output

import (
	"fmt"
	"io"

	"github.com/temirov/treetouch/internal/services/stream"
)

const (
	directoryLinePrefix = "DIR:  "
	fileLinePrefix      = "FILE: "
	skipLinePrefix      = "SKIP: "
	skipLineFormat      = "%s%s (%s)\n"
	dryRunNotice        = "Dry run: no changes were written"
)

type rawStreamRenderer struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	dryRun  bool
}

// NewRawStreamRenderer prints one status line per outcome when verbose is set.
func NewRawStreamRenderer(stdout, stderr io.Writer, verbose bool) StreamRenderer {
	return &rawStreamRenderer{stdout: stdout, stderr: stderr, verbose: verbose}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			_, err := fmt.Fprintln(renderer.stderr, event.Message.Message)
			return err
		}
	case stream.EventKindSummary:
		if event.Summary != nil {
			renderer.dryRun = event.Summary.DryRun
		}
	case stream.EventKindDirectory:
		return renderer.writeLine(directoryLinePrefix, event.Path)
	case stream.EventKindFile:
		return renderer.writeLine(fileLinePrefix, event.Path)
	case stream.EventKindSkip:
		if !renderer.verbose || renderer.stdout == nil {
			return nil
		}
		reason := stream.SkipReasonNotEmpty
		if event.Entry != nil && event.Entry.Reason != "" {
			reason = event.Entry.Reason
		}
		_, err := fmt.Fprintf(renderer.stdout, skipLineFormat, skipLinePrefix, event.Path, reason)
		return err
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.dryRun && renderer.verbose && renderer.stderr != nil {
		_, err := fmt.Fprintln(renderer.stderr, dryRunNotice)
		return err
	}
	return nil
}

func (renderer *rawStreamRenderer) writeLine(prefix, path string) error {
	if !renderer.verbose || renderer.stdout == nil {
		return nil
	}
	_, err := fmt.Fprintln(renderer.stdout, prefix+path)
	return err
}
