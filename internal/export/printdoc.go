package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"alertview-go/internal/columns"
	"alertview-go/internal/domain"
	"alertview-go/internal/metrics"
	"alertview-go/internal/view"
)

// printTemplate is the standalone printable report document. It carries
// its own styling and triggers the print dialog once loaded.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
        color: #1f2933;
        margin: 2rem;
    }
    header {
        display: flex;
        align-items: center;
        gap: 1rem;
        border-bottom: 2px solid #1f6feb;
        padding-bottom: 1rem;
        margin-bottom: 1rem;
    }
    .logo {
        width: 40px;
        height: 40px;
    }
    h1 {
        font-size: 1.4rem;
        margin: 0;
    }
    .meta {
        color: #52606d;
        font-size: 0.85rem;
        margin-bottom: 1rem;
    }
    table {
        width: 100%;
        border-collapse: collapse;
        font-size: 0.75rem;
    }
    th, td {
        border: 1px solid #cbd2d9;
        padding: 4px 6px;
        text-align: left;
    }
    th {
        background: #e4e7eb;
    }
    tr:nth-child(even) td {
        background: #f5f7fa;
    }
    @media print {
        body { margin: 0.5rem; }
    }
</style>
</head>
<body onload="window.print()">
<header>
    <svg class="logo" viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
        <path fill="#1f6feb" d="M12 2 1 21h22L12 2zm0 4.6L19.1 19H4.9L12 6.6z"/>
        <circle fill="#1f6feb" cx="12" cy="16" r="1.3"/>
        <rect fill="#1f6feb" x="11.2" y="10" width="1.6" height="4.5"/>
    </svg>
    <h1>{{.Title}}</h1>
</header>
<div class="meta">
    Generated {{.Generated}} &middot; {{.Summary}}
</div>
<table>
    <thead>
        <tr>
        {{- range .Headers}}
            <th>{{.}}</th>
        {{- end}}
        </tr>
    </thead>
    <tbody>
    {{- range .Rows}}
        <tr>
        {{- range .}}
            <td>{{.}}</td>
        {{- end}}
        </tr>
    {{- end}}
    </tbody>
</table>
</body>
</html>
`))

// printData is the template payload for the printable document.
type printData struct {
	Title     string
	Generated string
	Summary   string
	Headers   []string
	Rows      [][]string
}

// PrintDocument renders the filtered and sorted alerts as a standalone
// HTML document ready for print-to-PDF. The table is truncated at the
// engine's row limit; when that happens the title states how many of the
// total are shown. Truncation is not an error.
func (e *Engine) PrintDocument(alerts []domain.Alert, cols []columns.Column, now time.Time) ([]byte, error) {
	total := len(alerts)
	shown := total
	if e.printLimit > 0 && shown > e.printLimit {
		shown = e.printLimit
	}

	title := "Alert Report"
	if shown < total {
		title = fmt.Sprintf("Alert Report (showing first %d of %d alerts)", shown, total)
	}

	data := printData{
		Title:     title,
		Generated: now.Format("2006-01-02 15:04:05 MST"),
		Summary:   fmt.Sprintf("%d alerts", total),
		Headers:   make([]string, len(cols)),
		Rows:      make([][]string, 0, shown),
	}
	for i, c := range cols {
		data.Headers[i] = c.Label
	}
	for i := 0; i < shown; i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = view.RenderCell(&alerts[i], c, view.FormatGrid)
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render print document: %w", err)
	}

	metrics.ExportsGeneratedTotal.WithLabelValues("print").Inc()
	metrics.ExportRows.WithLabelValues("print").Observe(float64(shown))
	e.logger.Info("generated print export", "rows", shown, "total", total)

	return buf.Bytes(), nil
}
