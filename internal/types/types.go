// Package types defines the cross‑package data structures used by the treetouch CLI.
package types

import "encoding/xml"

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"

	CommandCheck = "check"
	CommandInit  = "init"
)

// SupportedFormats lists every report format in display order.
var SupportedFormats = []string{FormatRaw, FormatJSON, FormatXML}

// ReportEntry is one created or skipped path in a rendered report.
type ReportEntry struct {
	Kind   string `json:"kind" xml:"kind,attr"`
	Path   string `json:"path" xml:"path"`
	Line   int    `json:"line" xml:"line,attr"`
	Depth  int    `json:"depth" xml:"depth,attr"`
	Reason string `json:"reason,omitempty" xml:"reason,omitempty"`
}

// ReportSummary aggregates the outcome counts of a build.
type ReportSummary struct {
	Directories int `json:"directories" xml:"directories"`
	Files       int `json:"files" xml:"files"`
	Skipped     int `json:"skipped" xml:"skipped"`
}

// Report is the document produced by the json and xml formats.
type Report struct {
	XMLName  xml.Name       `json:"-" xml:"report"`
	Root     string         `json:"root" xml:"root,attr"`
	DryRun   bool           `json:"dryRun" xml:"dryRun,attr"`
	Entries  []ReportEntry  `json:"entries" xml:"entries>entry"`
	Warnings []string       `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
	Summary  *ReportSummary `json:"summary,omitempty" xml:"summary,omitempty"`
}
