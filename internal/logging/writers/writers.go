// Package writers opens the output destination of the trace sink.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// Output is a parsed output destination.
type Output struct {
	Type WriterType
	Path string
}

// ParseOutput parses an output destination:
//   - "stdout" or "" - os.Stdout
//   - "stderr" - os.Stderr
//   - "file:///path/to/file" or any path containing a separator - append to the file
func ParseOutput(output string) (Output, error) {
	switch {
	case output == "" || output == "stdout":
		return Output{Type: WriterTypeStdout}, nil
	case output == "stderr":
		return Output{Type: WriterTypeStderr}, nil
	case strings.HasPrefix(output, "file://"):
		p := strings.TrimPrefix(output, "file://")
		if p == "" {
			return Output{}, fmt.Errorf("empty file path in output: %s", output)
		}
		return Output{Type: WriterTypeFile, Path: p}, nil
	case isFilePath(output):
		return Output{Type: WriterTypeFile, Path: output}, nil
	default:
		return Output{}, fmt.Errorf("unsupported output format: %s", output)
	}
}

// isFilePath determines if the string represents a local file path
func isFilePath(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	return strings.Contains(path, "/") || strings.Contains(path, "\\")
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open returns a writer for the output. Closing a stdout or stderr writer is a no-op.
func (o Output) Open() (io.WriteCloser, error) {
	switch o.Type {
	case WriterTypeStdout:
		return nopCloser{os.Stdout}, nil
	case WriterTypeStderr:
		return nopCloser{os.Stderr}, nil
	case WriterTypeFile:
		return createFileWriter(o.Path)
	default:
		return nil, fmt.Errorf("unsupported writer type: %s", o.Type)
	}
}

// CreateWriter parses and opens output in one step.
func CreateWriter(output string) (io.WriteCloser, error) {
	o, err := ParseOutput(output)
	if err != nil {
		return nil, err
	}
	return o.Open()
}

// createFileWriter opens the file for appending, creating parent directories as needed.
func createFileWriter(filePath string) (io.WriteCloser, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}
