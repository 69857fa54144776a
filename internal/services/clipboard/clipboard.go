// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Reader reads textual data from the system clipboard.
type Reader interface {
	Read() (string, error)
}

// Service implements Reader using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Read returns the current clipboard text.
func (service *Service) Read() (string, error) {
	return clipboard.ReadAll()
}

var _ Reader = (*Service)(nil)
