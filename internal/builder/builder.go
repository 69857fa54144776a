// Package builder materializes structure descriptions as directories and files.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/treetouch/internal/services/stream"
	"github.com/temirov/treetouch/internal/structure"
)

const (
	defaultDirectoryPermissions os.FileMode = 0o755
	defaultFilePermissions      os.FileMode = 0o644

	errorRootRequired       = "builder: root directory is required"
	errorIndentUnitFormat   = "builder: indent unit must be at least 1, got %d"
	errorAbsoluteRootFormat = "resolve root %s: %w"
	errorPathFormat         = "%s: %w"
	debugEntryMessage       = "entry"
	debugSkipMessage        = "skip existing file"
	logFieldLine            = "line"
	logFieldDepth           = "depth"
	logFieldKind            = "kind"
	logFieldPath            = "path"
	logFieldStackDepth      = "stack"
	lineErrorFormat         = "Error on line %d: %v"

	warningDirectoryFileFormat = "Warning: line %d names existing directory %s as a file"
	warningParentEntryFormat   = "Warning: line %d names its parent directory %s"
)

// ErrNotDirectory is returned when a directory entry resolves to an existing non-directory.
var ErrNotDirectory = errors.New("not a directory")

// Options configures a build.
type Options struct {
	Root       string
	IndentUnit int
	Force      bool
	DryRun     bool
}

// Summary counts the outcomes of a build.
type Summary struct {
	Directories int
	Files       int
	Skipped     int
}

// LineError wraps a filesystem failure with the line that caused it.
type LineError struct {
	Line int
	Err  error
}

func (lineError *LineError) Error() string {
	return fmt.Sprintf(lineErrorFormat, lineError.Line, lineError.Err)
}

func (lineError *LineError) Unwrap() error {
	return lineError.Err
}

// Builder walks structure lines with an ancestor stack and creates the entries they declare.
type Builder struct {
	filesystem afero.Fs
	logger     *zap.Logger
	now        func() time.Time
}

// New constructs a Builder over the provided filesystem. A nil logger disables logging.
func New(filesystem afero.Fs, logger *zap.Logger) *Builder {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{filesystem: filesystem, logger: logger, now: time.Now}
}

// NewFilesystem returns the filesystem a build should run on.
// Dry runs read the real filesystem and keep every write in memory.
func NewFilesystem(dryRun bool) afero.Fs {
	if dryRun {
		return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs())
	}
	return afero.NewOsFs()
}

// Build processes lines in order and publishes one event per created or skipped entry.
// The first structural or filesystem error stops the build; nothing already created is removed.
func (builder *Builder) Build(ctx context.Context, options Options, lines []structure.Line, emitter *stream.Emitter) (Summary, error) {
	var summary Summary
	if options.Root == "" {
		return summary, errors.New(errorRootRequired)
	}
	if options.IndentUnit < 1 {
		return summary, fmt.Errorf(errorIndentUnitFormat, options.IndentUnit)
	}
	root, absoluteError := filepath.Abs(options.Root)
	if absoluteError != nil {
		return summary, fmt.Errorf(errorAbsoluteRootFormat, options.Root, absoluteError)
	}

	stack := []string{root}
	for _, line := range lines {
		if ctx != nil {
			if contextError := ctx.Err(); contextError != nil {
				return summary, contextError
			}
		}

		entry, ok, parseError := structure.ParseLine(line, options.IndentUnit, len(stack)-1)
		if parseError != nil {
			return summary, parseError
		}
		if !ok {
			continue
		}

		stack = stack[:entry.Depth+1]
		target := filepath.Join(append([]string{stack[len(stack)-1]}, entry.Segments...)...)
		if len(entry.Segments) == 0 {
			if warnError := emitter.Warn(target, fmt.Sprintf(warningParentEntryFormat, entry.Line, target)); warnError != nil {
				return summary, warnError
			}
		}

		builder.logger.Debug(debugEntryMessage,
			zap.Int(logFieldLine, entry.Line),
			zap.Int(logFieldDepth, entry.Depth),
			zap.String(logFieldKind, string(entry.Kind)),
			zap.String(logFieldPath, target),
			zap.Int(logFieldStackDepth, len(stack)),
		)

		if entry.IsDirectory() {
			if directoryError := builder.ensureDirectory(target); directoryError != nil {
				return summary, &LineError{Line: entry.Line, Err: directoryError}
			}
			stack = append(stack, target)
			summary.Directories++
			if sendError := emitter.Send(entryEvent(stream.EventKindDirectory, target, entry, "")); sendError != nil {
				return summary, sendError
			}
			continue
		}

		outcome, fileError := builder.ensureFile(target, options)
		if fileError != nil {
			return summary, &LineError{Line: entry.Line, Err: fileError}
		}
		if outcome.directory {
			if warnError := emitter.Warn(target, fmt.Sprintf(warningDirectoryFileFormat, entry.Line, target)); warnError != nil {
				return summary, warnError
			}
		}
		if outcome.skipReason != "" {
			builder.logger.Debug(debugSkipMessage, zap.Int(logFieldLine, entry.Line), zap.String(logFieldPath, target))
			summary.Skipped++
			if sendError := emitter.Send(entryEvent(stream.EventKindSkip, target, entry, outcome.skipReason)); sendError != nil {
				return summary, sendError
			}
			continue
		}
		summary.Files++
		if sendError := emitter.Send(entryEvent(stream.EventKindFile, target, entry, "")); sendError != nil {
			return summary, sendError
		}
	}

	summaryError := emitter.Send(stream.Event{
		Kind: stream.EventKindSummary,
		Path: root,
		Summary: &stream.SummaryEvent{
			Directories: summary.Directories,
			Files:       summary.Files,
			Skipped:     summary.Skipped,
			DryRun:      options.DryRun,
		},
	})
	if summaryError != nil {
		return summary, summaryError
	}
	return summary, emitter.Send(stream.Event{Kind: stream.EventKindDone, Path: root})
}

// ensureDirectory creates path and any missing parents. Existing directories are left as they are.
func (builder *Builder) ensureDirectory(path string) error {
	info, statError := builder.filesystem.Stat(path)
	switch {
	case statError == nil && info.IsDir():
		return nil
	case statError == nil:
		return fmt.Errorf(errorPathFormat, path, ErrNotDirectory)
	case !os.IsNotExist(statError):
		return statError
	}
	return builder.filesystem.MkdirAll(path, defaultDirectoryPermissions)
}

// fileOutcome describes what ensureFile did with an existing path.
type fileOutcome struct {
	skipReason string
	directory  bool
}

// ensureFile creates path empty when absent and refreshes its modification time otherwise.
// Existing content is never truncated. Existing directories are handled like non-empty files:
// skipped unless force is set, in which case only their modification time changes.
// A dry run leaves directory timestamps alone.
func (builder *Builder) ensureFile(path string, options Options) (fileOutcome, error) {
	info, statError := builder.filesystem.Stat(path)
	switch {
	case statError == nil && info.IsDir():
		outcome := fileOutcome{directory: true}
		if !options.Force {
			outcome.skipReason = stream.SkipReasonDirectory
			return outcome, nil
		}
		if options.DryRun {
			return outcome, nil
		}
		return outcome, builder.touch(path, true)
	case statError == nil && info.Size() > 0 && !options.Force:
		return fileOutcome{skipReason: stream.SkipReasonNotEmpty}, nil
	case statError != nil && !os.IsNotExist(statError):
		return fileOutcome{}, statError
	}

	if directoryError := builder.ensureDirectory(filepath.Dir(path)); directoryError != nil {
		return fileOutcome{}, directoryError
	}
	return fileOutcome{}, builder.touch(path, statError == nil)
}

func (builder *Builder) touch(path string, exists bool) (err error) {
	if exists {
		current := builder.now()
		return builder.filesystem.Chtimes(path, current, current)
	}
	fileHandle, openError := builder.filesystem.OpenFile(path, os.O_CREATE|os.O_WRONLY, defaultFilePermissions)
	if openError != nil {
		return openError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()
	return nil
}

func entryEvent(kind stream.EventKind, target string, entry structure.Entry, reason string) stream.Event {
	return stream.Event{
		Kind: kind,
		Path: target,
		Entry: &stream.EntryEvent{
			Line:   entry.Line,
			Depth:  entry.Depth,
			Name:   entry.Name,
			Reason: reason,
		},
	}
}
