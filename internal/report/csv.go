package report

import (
	"encoding/csv"
	"os"

	"github.com/elektronenhirn/oper/internal/history"
)

// CSVWriter writes the snapshot as RFC 4180 CSV.
type CSVWriter struct{}

// Write serializes the snapshot to a CSV file at path.
func (w *CSVWriter) Write(snap *history.Snapshot, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i := range snap.Commits {
		if err := writer.Write(row(&snap.Commits[i])); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
