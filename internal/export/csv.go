// Package export produces report artifacts from the filtered and sorted
// alert view: a flat CSV file and a standalone printable HTML document.
// Both reflect the column labels and order at the moment of export and
// never apply pagination.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"alertview-go/internal/columns"
	"alertview-go/internal/domain"
	"alertview-go/internal/metrics"
	"alertview-go/internal/view"
)

// Engine renders export artifacts.
type Engine struct {
	printLimit int
	logger     *slog.Logger
}

// NewEngine creates an export engine. printLimit caps the printable
// document's row count.
func NewEngine(printLimit int, logger *slog.Logger) *Engine {
	return &Engine{
		printLimit: printLimit,
		logger:     logger,
	}
}

// CSVFileName returns the timestamped download name for a CSV export.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("alert_report_%s.csv", now.UTC().Format(time.RFC3339))
}

// CSV serializes the alerts to CSV: one header row of the current column
// labels, then one row per alert. Cells follow the shared rendering rules
// except that missing values are blank rather than "N/A"; CSV consumers
// expect empty cells.
func (e *Engine) CSV(alerts []domain.Alert, cols []columns.Column) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(cols))
	for i := range alerts {
		for j, c := range cols {
			row[j] = view.RenderCell(&alerts[i], c, view.FormatCSV)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	metrics.ExportsGeneratedTotal.WithLabelValues("csv").Inc()
	metrics.ExportRows.WithLabelValues("csv").Observe(float64(len(alerts)))
	e.logger.Info("generated CSV export", "rows", len(alerts), "columns", len(cols))

	return buf.Bytes(), nil
}
