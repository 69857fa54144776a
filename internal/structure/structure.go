// Package structure parses indentation-based structure descriptions into entries.
package structure

import (
	"strings"
)

const (
	spaceCharacter       = ' '
	tabCharacter         = '\t'
	forwardSlash         = "/"
	backwardSlash        = `\`
	pathSeparators       = forwardSlash + backwardSlash
	currentDirectoryName = "."
	parentDirectoryName  = ".."
)

// Kind distinguishes directory entries from file entries.
type Kind string

const (
	// KindDirectory marks an entry whose text ends with a path separator.
	KindDirectory Kind = "directory"
	// KindFile marks every other entry.
	KindFile Kind = "file"
)

// Line is one raw input record.
type Line struct {
	Number int
	Text   string
}

// Entry is a non-blank line interpreted as a directory or file declaration.
type Entry struct {
	Line     int
	Depth    int
	Name     string
	Segments []string
	Kind     Kind
}

// IsDirectory reports whether the entry declares a directory.
func (entry Entry) IsDirectory() bool {
	return entry.Kind == KindDirectory
}

// NewLines numbers raw text lines starting from one.
func NewLines(texts []string) []Line {
	lines := make([]Line, 0, len(texts))
	for index, text := range texts {
		lines = append(lines, Line{Number: index + 1, Text: text})
	}
	return lines
}

// IsBlank reports whether the line carries no entry.
func IsBlank(line Line) bool {
	return strings.TrimSpace(line.Text) == ""
}

// ParseLine interprets a single line. openDepth is the deepest level a new entry may use,
// which is the number of currently open directories. The boolean result is false for blank lines.
func ParseLine(line Line, indentUnit int, openDepth int) (Entry, bool, error) {
	if IsBlank(line) {
		return Entry{}, false, nil
	}
	if indentUnit < 1 {
		return Entry{}, false, &IndentationError{Line: line.Number, Unit: indentUnit}
	}

	indentationWidth := 0
	for indentationWidth < len(line.Text) && line.Text[indentationWidth] == spaceCharacter {
		indentationWidth++
	}
	if line.Text[indentationWidth] == tabCharacter {
		return Entry{}, false, &IndentationError{Line: line.Number, Unit: indentUnit, Tab: true}
	}
	if indentationWidth%indentUnit != 0 {
		return Entry{}, false, &IndentationError{Line: line.Number, Unit: indentUnit}
	}

	depth := indentationWidth / indentUnit
	if depth > openDepth {
		return Entry{}, false, &IndentationJumpError{Line: line.Number, Depth: depth, Max: openDepth}
	}

	content := strings.TrimRight(line.Text[indentationWidth:], " \t")
	kind := KindFile
	if strings.HasSuffix(content, forwardSlash) || strings.HasSuffix(content, backwardSlash) {
		kind = KindDirectory
	}

	segments, segmentsError := NormalizeSegments(content)
	if segmentsError != nil {
		return Entry{}, false, &PathEscapeError{Line: line.Number, Name: content}
	}

	return Entry{
		Line:     line.Number,
		Depth:    depth,
		Name:     strings.TrimRight(content, pathSeparators),
		Segments: segments,
		Kind:     kind,
	}, true, nil
}

// NormalizeSegments splits a name on both separator styles and drops empty and "." segments.
// A ".." segment is rejected because the entry would resolve outside its parent.
func NormalizeSegments(name string) ([]string, error) {
	unified := strings.ReplaceAll(name, backwardSlash, forwardSlash)
	var segments []string
	for _, segment := range strings.Split(unified, forwardSlash) {
		switch segment {
		case "", currentDirectoryName:
			continue
		case parentDirectoryName:
			return nil, errParentSegment
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

// Parse validates a whole document without touching the filesystem and returns its entries.
// Depth tracking mirrors the builder: only directories open a new level.
func Parse(lines []Line, indentUnit int) ([]Entry, error) {
	var entries []Entry
	openDepth := 0
	for _, line := range lines {
		entry, ok, parseError := ParseLine(line, indentUnit, openDepth)
		if parseError != nil {
			return nil, parseError
		}
		if !ok {
			continue
		}
		openDepth = entry.Depth
		if entry.IsDirectory() {
			openDepth++
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
