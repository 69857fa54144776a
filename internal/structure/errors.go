package structure

import (
	"errors"
	"fmt"
)

const (
	indentationErrorFormat     = "Indentation error on line %d, expected multiple of %d spaces"
	indentationTabErrorFormat  = "Indentation error on line %d, tabs are not valid indentation"
	indentationJumpErrorFormat = "Indentation jumps too far on line %d"
	pathEscapeErrorFormat      = "Invalid entry on line %d: %q leaves its parent directory"
)

var errParentSegment = errors.New("parent directory segment")

// IndentationError reports leading whitespace that is not a whole number of indent units.
type IndentationError struct {
	Line int
	Unit int
	Tab  bool
}

func (indentationError *IndentationError) Error() string {
	if indentationError.Tab {
		return fmt.Sprintf(indentationTabErrorFormat, indentationError.Line)
	}
	return fmt.Sprintf(indentationErrorFormat, indentationError.Line, indentationError.Unit)
}

// IndentationJumpError reports an entry nested deeper than the deepest open directory allows.
type IndentationJumpError struct {
	Line  int
	Depth int
	Max   int
}

func (jumpError *IndentationJumpError) Error() string {
	return fmt.Sprintf(indentationJumpErrorFormat, jumpError.Line)
}

// PathEscapeError reports an entry containing a ".." segment.
type PathEscapeError struct {
	Line int
	Name string
}

func (escapeError *PathEscapeError) Error() string {
	return fmt.Sprintf(pathEscapeErrorFormat, escapeError.Line, escapeError.Name)
}
