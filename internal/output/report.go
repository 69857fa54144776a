package output

import (
	"github.com/temirov/treetouch/internal/services/stream"
	"github.com/temirov/treetouch/internal/types"
)

// reportCollector accumulates outcome events into a report document.
type reportCollector struct {
	report types.Report
}

func (collector *reportCollector) add(event stream.Event) {
	switch event.Kind {
	case stream.EventKindDirectory, stream.EventKindFile, stream.EventKindSkip:
		entry := types.ReportEntry{Kind: string(event.Kind), Path: event.Path}
		if event.Entry != nil {
			entry.Line = event.Entry.Line
			entry.Depth = event.Entry.Depth
			entry.Reason = event.Entry.Reason
		}
		collector.report.Entries = append(collector.report.Entries, entry)
	case stream.EventKindWarning:
		if event.Message != nil {
			collector.report.Warnings = append(collector.report.Warnings, event.Message.Message)
		}
	case stream.EventKindSummary:
		collector.report.Root = event.Path
		if event.Summary != nil {
			collector.report.DryRun = event.Summary.DryRun
			collector.report.Summary = &types.ReportSummary{
				Directories: event.Summary.Directories,
				Files:       event.Summary.Files,
				Skipped:     event.Summary.Skipped,
			}
		}
	}
}

func (collector *reportCollector) document() types.Report {
	document := collector.report
	if document.Entries == nil {
		document.Entries = []types.ReportEntry{}
	}
	return document
}
