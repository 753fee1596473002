package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/elektronenhirn/oper/internal/history"
)

// Compile-time interface conformance checks.
var (
	_ Writer = (*CSVWriter)(nil)
	_ Writer = (*ODSWriter)(nil)
	_ Writer = (*XLSXWriter)(nil)
)

// header is the fixed column schema shared by every export format.
var header = []string{"Commit Date", "Local Path of Repo", "Commit Author", "Summary", "Message"}

// Format represents an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatODS  Format = "ods"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat rejects output paths with unsupported extensions.
var ErrUnknownFormat = errors.New("couldn't derive report format from filename: supported endings are .csv, .ods, .xlsx")

// FormatFromPath picks the export format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".ods":
		return FormatODS, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Writer serializes a snapshot to one export format.
type Writer interface {
	Write(snap *history.Snapshot, path string) error
}

// NewWriter creates a writer for the specified format.
func NewWriter(format Format) Writer {
	switch format {
	case FormatODS:
		return &ODSWriter{}
	case FormatXLSX:
		return &XLSXWriter{}
	default:
		return &CSVWriter{}
	}
}

// description returns the human-readable phrase used when announcing a
// finished report.
func (f Format) description() string {
	switch f {
	case FormatODS:
		return "in Open Document Format"
	case FormatXLSX:
		return "in MS Excel format"
	default:
		return "as comma-separated-values"
	}
}

// Generate writes the snapshot to path, picking the format from the file
// extension, and announces the result on out.
func Generate(snap *history.Snapshot, path string, out io.Writer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := NewWriter(format).Write(snap, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %d records %s to %s\n",
		len(snap.Commits), format.description(), path)
	return nil
}

// row flattens one commit into the shared column schema.
func row(c *history.Commit) []string {
	return []string{c.TimeString(), c.Repo.RelPath, c.Author, c.Summary, c.Message}
}
