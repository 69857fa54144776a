// Package stream carries builder outcomes from the tree builder to renderers.
package stream

import (
	"encoding/xml"
	"time"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindDirectory EventKind = "directory"
	EventKindFile      EventKind = "file"
	EventKindSkip      EventKind = "skip"
	EventKindWarning   EventKind = "warning"
	EventKindSummary   EventKind = "summary"
	EventKindDone      EventKind = "done"
)

const (
	// SkipReasonNotEmpty explains why an existing file was left alone.
	SkipReasonNotEmpty = "exists and not empty"
	// SkipReasonDirectory explains why a file entry naming an existing directory was left alone.
	SkipReasonDirectory = "is a directory"
)

type Event struct {
	XMLName   xml.Name  `json:"-" xml:"event"`
	Version   int       `json:"version" xml:"version,attr"`
	Kind      EventKind `json:"kind" xml:"kind,attr"`
	Path      string    `json:"path,omitempty" xml:"path,attr,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty" xml:"emittedAt,attr,omitempty"`

	Entry   *EntryEvent   `json:"entry,omitempty" xml:"entry,omitempty"`
	Summary *SummaryEvent `json:"summary,omitempty" xml:"summary,omitempty"`
	Message *LogEvent     `json:"message,omitempty" xml:"message,omitempty"`
}

// EntryEvent describes what happened to one structure entry.
type EntryEvent struct {
	Line   int    `json:"line" xml:"line,attr"`
	Depth  int    `json:"depth" xml:"depth,attr"`
	Name   string `json:"name" xml:"name,attr"`
	Reason string `json:"reason,omitempty" xml:"reason,attr,omitempty"`
}

type SummaryEvent struct {
	Directories int  `json:"directories" xml:"directories,attr"`
	Files       int  `json:"files" xml:"files,attr"`
	Skipped     int  `json:"skipped" xml:"skipped,attr"`
	DryRun      bool `json:"dryRun,omitempty" xml:"dryRun,attr,omitempty"`
}

type LogEvent struct {
	Level   string `json:"level,omitempty" xml:"level,attr,omitempty"`
	Message string `json:"message" xml:",chardata"`
}
