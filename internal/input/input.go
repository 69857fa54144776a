// Package input reads structure descriptions from files, standard input, or the clipboard.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/temirov/treetouch/internal/services/clipboard"
	"github.com/temirov/treetouch/internal/structure"
)

const (
	fileNotFoundFormat       = "Error: File not found %s"
	openFileErrorFormat      = "open structure file %s: %w"
	closeFileErrorFormat     = "close structure file %s: %w"
	readErrorFormat          = "read structure: %w"
	clipboardErrorFormat     = "read clipboard: %w"
	conflictingSourcesError  = "--file and --clipboard cannot be combined"
	interactivePromptMessage = "Enter folder structure (Ctrl+D to finish (on Linux) and Ctrl+Z+Enter to finish (on Windows)):"
	maximumLineBytes         = 1024 * 1024
	byteOrderMark            = "\ufeff"
)

// ErrConflictingSources is returned when more than one explicit source is requested.
var ErrConflictingSources = errors.New(conflictingSourcesError)

// FileNotFoundError reports a structure file path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (notFound *FileNotFoundError) Error() string {
	return fmt.Sprintf(fileNotFoundFormat, notFound.Path)
}

// Source describes where structure lines come from.
type Source struct {
	FilePath      string
	UseClipboard  bool
	Stdin         io.Reader
	Prompt        io.Writer
	ClipboardText clipboard.Reader
	Filesystem    afero.Fs
}

// LoadLines reads every line of the selected source. Without a file or clipboard request it reads Stdin,
// printing a prompt first when Stdin is an interactive terminal.
func LoadLines(source Source) ([]structure.Line, error) {
	if source.FilePath != "" && source.UseClipboard {
		return nil, ErrConflictingSources
	}

	if source.UseClipboard {
		reader := source.ClipboardText
		if reader == nil {
			reader = clipboard.NewService()
		}
		text, readError := reader.Read()
		if readError != nil {
			return nil, fmt.Errorf(clipboardErrorFormat, readError)
		}
		return ReadLines(strings.NewReader(text))
	}

	if source.FilePath != "" {
		filesystem := source.Filesystem
		if filesystem == nil {
			filesystem = afero.NewOsFs()
		}
		return readStructureFile(filesystem, source.FilePath)
	}

	stdin := source.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if source.Prompt != nil && isTerminal(stdin) {
		fmt.Fprintln(source.Prompt, interactivePromptMessage)
	}
	return ReadLines(stdin)
}

// #nosec G304
func readStructureFile(filesystem afero.Fs, path string) (lines []structure.Line, err error) {
	fileHandle, openError := filesystem.Open(path)
	if openError != nil {
		if errors.Is(openError, os.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf(openFileErrorFormat, path, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(closeFileErrorFormat, path, closeError)
		}
	}()
	return ReadLines(fileHandle)
}

// ReadLines splits reader into numbered lines. Carriage returns and a leading byte order mark are dropped.
func ReadLines(reader io.Reader) ([]structure.Line, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maximumLineBytes)
	var texts []string
	for scanner.Scan() {
		text := scanner.Text()
		if len(texts) == 0 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		texts = append(texts, text)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(readErrorFormat, scanError)
	}
	return structure.NewLines(texts), nil
}

func isTerminal(reader io.Reader) bool {
	file, isFile := reader.(*os.File)
	if !isFile {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
