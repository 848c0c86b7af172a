package api

import (
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alertview-go/internal/accumulator"
	"alertview-go/internal/columns"
	"alertview-go/internal/domain"
	"alertview-go/internal/view"
)

// detailExcluded are the alert properties hidden from the generic
// all-fields detail listing. Monitor object groups get their own
// rendering instead.
var detailExcluded = map[string]bool{
	"id":                  true,
	"_type":               true,
	"_accountId":          true,
	"_version":            true,
	"monitorObjectGroups": true,
}

// ReportHandler handles accumulation runs and the report view.
type ReportHandler struct {
	acc       *accumulator.Service
	viewState *view.State
	colModel  *columns.Model
	logger    *slog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(acc *accumulator.Service, viewState *view.State, colModel *columns.Model, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		acc:       acc,
		viewState: viewState,
		colModel:  colModel,
		logger:    logger,
	}
}

// startRunRequest is the body of POST /v1/report/runs.
type startRunRequest struct {
	Start          int64 `json:"start"`
	End            int64 `json:"end"`
	LastDay        bool  `json:"last_day"`
	IncludeCleared bool  `json:"include_cleared"`
}

// StartRun handles POST /v1/report/runs
// Begins a new accumulation run against the upstream alert API.
func (h *ReportHandler) StartRun(c *fiber.Ctx) error {
	var req startRunRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "invalid request body")
	}

	query := domain.AlertQuery{
		Start:          req.Start,
		End:            req.End,
		IncludeCleared: req.IncludeCleared,
	}
	if req.LastDay {
		query = domain.LastDayQuery(req.IncludeCleared)
	}

	runID, err := h.acc.Start(c.Context(), query)
	if err != nil {
		if errors.Is(err, accumulator.ErrRunInProgress) {
			return Conflict(c, "an accumulation run is already in progress")
		}
		if errors.Is(err, domain.ErrInvalidTimeRange) {
			return ValidationError(c, err.Error())
		}
		h.logger.Error("failed to start run", "error", err)
		return InternalError(c, "failed to start run")
	}

	return Accepted(c, fiber.Map{"run_id": runID})
}

// RunStatus handles GET /v1/report/runs/current
// Returns the progress of the current or most recent run.
func (h *ReportHandler) RunStatus(c *fiber.Ctx) error {
	return Success(c, h.acc.Status())
}

// CancelRun handles DELETE /v1/report/runs/current
// Abandons the in-flight run, if any.
func (h *ReportHandler) CancelRun(c *fiber.Ctx) error {
	h.acc.Cancel()
	return NoContent(c)
}

// rowsResponse is the payload of GET /v1/report/rows.
type rowsResponse struct {
	Columns   []columns.Column `json:"columns"`
	Rows      []reportRow      `json:"rows"`
	Total     int              `json:"total"`
	Filtered  int              `json:"filtered"`
	Page      int              `json:"page"`
	PageCount int              `json:"page_count"`
	View      view.Options     `json:"view"`
}

// reportRow is one rendered grid row.
type reportRow struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

// Rows handles GET /v1/report/rows
// Applies any view changes passed as query parameters, then returns the
// visible page of rendered rows.
func (h *ReportHandler) Rows(c *fiber.Ctx) error {
	h.applyViewParams(c)

	snap := h.acc.Snapshot()
	opts := h.viewState.Snapshot()
	cols := h.colModel.Columns()

	filtered := view.Filter(snap.Alerts, opts.FilterText)
	sorted := view.Sort(filtered, opts.SortColumn, opts.SortDirection)
	paged := view.Paginate(sorted, opts.Page, opts.PageSize)

	rows := make([]reportRow, len(paged))
	for i := range paged {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = view.RenderCell(&paged[i], col, view.FormatGrid)
		}
		rows[i] = reportRow{ID: paged[i].ID, Cells: cells}
	}

	return Success(c, rowsResponse{
		Columns:   cols,
		Rows:      rows,
		Total:     len(snap.Alerts),
		Filtered:  len(filtered),
		Page:      opts.Page,
		PageCount: view.PageCount(len(filtered), opts.PageSize),
		View:      opts,
	})
}

// applyViewParams folds query-parameter view changes into the shared view
// state. Filter, sort and page-size changes reset the page to 1; an
// explicit page parameter is applied last.
func (h *ReportHandler) applyViewParams(c *fiber.Ctx) {
	if c.Request().URI().QueryArgs().Has("filter") {
		h.viewState.SetFilter(c.Query("filter"))
	}
	if c.Request().URI().QueryArgs().Has("sort") {
		dir := view.Direction(c.Query("dir", string(view.DirectionAsc)))
		if dir.IsValid() {
			h.viewState.SetSort(c.Query("sort"), dir)
		}
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		h.viewState.SetPageSize(size)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		h.viewState.SetPage(page)
	}
}

// sortClickRequest is the body of POST /v1/report/view/sort.
type sortClickRequest struct {
	Column string `json:"column"`
}

// SortClick handles POST /v1/report/view/sort
// Applies one sort-header click: the active column cycles through
// ascending, descending and none; a new column starts at ascending.
func (h *ReportHandler) SortClick(c *fiber.Ctx) error {
	var req sortClickRequest
	if err := c.BodyParser(&req); err != nil || req.Column == "" {
		return BadRequest(c, "column is required")
	}
	h.viewState.ClickSort(req.Column)
	return Success(c, h.viewState.Snapshot())
}

// Timeline handles GET /v1/report/timeline
// Returns the per-hour histogram of the filtered alert set.
func (h *ReportHandler) Timeline(c *fiber.Ctx) error {
	if c.Request().URI().QueryArgs().Has("filter") {
		h.viewState.SetFilter(c.Query("filter"))
	}

	snap := h.acc.Snapshot()
	opts := h.viewState.Snapshot()
	filtered := view.Filter(snap.Alerts, opts.FilterText)

	return Success(c, view.Timeline(filtered))
}

// Properties handles GET /v1/report/properties
// Returns the discovered-property set of the published alerts.
func (h *ReportHandler) Properties(c *fiber.Ctx) error {
	return Success(c, h.acc.Snapshot().Properties)
}

// detailField is one rendered field of the alert detail view.
type detailField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// detailResponse is the payload of GET /v1/report/alerts/:id.
type detailResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Fields []detailField `json:"fields"`
	Groups []string      `json:"groups,omitempty"`
}

// AlertDetail handles GET /v1/report/alerts/:id
// Renders every non-excluded field of one alert, with monitor object
// groups listed separately by path.
func (h *ReportHandler) AlertDetail(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return BadRequest(c, "id is required")
	}

	alert, err := h.acc.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrAlertNotFound) {
			return NotFound(c, "alert not found")
		}
		h.logger.Error("failed to get alert", "id", id, "error", err)
		return InternalError(c, "failed to get alert")
	}

	resp := detailResponse{
		ID:     alert.ID,
		Status: view.StatusLabel(alert),
		Groups: alert.GroupPaths(),
	}

	// Built-in fields first in their canonical order, then extension
	// properties alphabetically.
	for _, col := range columns.Builtins() {
		resp.Fields = append(resp.Fields, detailField{
			Name:  col.OriginalName,
			Value: view.RenderCell(alert, col, view.FormatGrid),
		})
	}
	extras := alert.ExtensionKeys()
	sort.Strings(extras)
	for _, name := range extras {
		if detailExcluded[name] {
			continue
		}
		resp.Fields = append(resp.Fields, detailField{
			Name: name,
			Value: view.RenderCell(alert, columns.Column{
				ID: name, Label: name, OriginalName: name,
			}, view.FormatGrid),
		})
	}

	return Success(c, resp)
}
