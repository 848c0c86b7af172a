package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"alertview-go/internal/accumulator"
	"alertview-go/internal/columns"
	"alertview-go/internal/export"
	"alertview-go/internal/view"
)

// ExportHandler handles report export downloads. Exports reflect the
// filter and sort at the moment of the request and ignore pagination.
type ExportHandler struct {
	acc       *accumulator.Service
	viewState *view.State
	colModel  *columns.Model
	engine    *export.Engine
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(acc *accumulator.Service, viewState *view.State, colModel *columns.Model, engine *export.Engine, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		acc:       acc,
		viewState: viewState,
		colModel:  colModel,
		engine:    engine,
		logger:    logger,
	}
}

// CSV handles GET /v1/report/export/csv
// Streams the current view as a timestamped CSV download.
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	snap := h.acc.Snapshot()
	opts := h.viewState.Snapshot()
	cols := h.colModel.Columns()

	rows := view.Sort(view.Filter(snap.Alerts, opts.FilterText), opts.SortColumn, opts.SortDirection)

	data, err := h.engine.CSV(rows, cols)
	if err != nil {
		h.logger.Error("failed to generate CSV export", "error", err)
		return InternalError(c, "failed to generate CSV export")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.CSVFileName(time.Now())))
	return c.Send(data)
}

// Print handles GET /v1/report/export/print
// Returns the current view as a standalone printable HTML document.
func (h *ExportHandler) Print(c *fiber.Ctx) error {
	snap := h.acc.Snapshot()
	opts := h.viewState.Snapshot()
	cols := h.colModel.Columns()

	rows := view.Sort(view.Filter(snap.Alerts, opts.FilterText), opts.SortColumn, opts.SortDirection)

	doc, err := h.engine.PrintDocument(rows, cols, time.Now())
	if err != nil {
		h.logger.Error("failed to generate print export", "error", err)
		return InternalError(c, "failed to generate print export")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(doc)
}
