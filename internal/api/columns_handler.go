package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"alertview-go/internal/columns"
)

// ColumnsHandler handles HTTP requests for column model operations.
type ColumnsHandler struct {
	model  *columns.Model
	logger *slog.Logger
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(model *columns.Model, logger *slog.Logger) *ColumnsHandler {
	return &ColumnsHandler{
		model:  model,
		logger: logger,
	}
}

// List handles GET /v1/report/columns
// Returns the active column list in display order.
func (h *ColumnsHandler) List(c *fiber.Ctx) error {
	return Success(c, h.model.Columns())
}

// reorderRequest is the body of POST /v1/report/columns/reorder.
type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Reorder handles POST /v1/report/columns/reorder
// Moves one column to a new position.
func (h *ColumnsHandler) Reorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "invalid request body")
	}

	if err := h.model.Reorder(req.From, req.To); err != nil {
		if errors.Is(err, columns.ErrIndexOutOfRange) {
			return ValidationError(c, err.Error())
		}
		h.logger.Error("failed to reorder columns", "error", err)
		return InternalError(c, "failed to reorder columns")
	}
	return Success(c, h.model.Columns())
}

// renameRequest is the body of POST /v1/report/columns/rename.
type renameRequest struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Rename handles POST /v1/report/columns/rename
// Changes a column's display label. The column id and the property it
// reads are untouched.
func (h *ColumnsHandler) Rename(c *fiber.Ctx) error {
	var req renameRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return BadRequest(c, "id is required")
	}

	h.model.Rename(req.ID, req.Label)
	return Success(c, h.model.Columns())
}

// addPropertyRequest is the body of POST /v1/report/columns/properties.
type addPropertyRequest struct {
	Name string `json:"name"`
}

// AddProperty handles POST /v1/report/columns/properties
// Adds a display column for a discovered property.
func (h *ColumnsHandler) AddProperty(c *fiber.Ctx) error {
	var req addPropertyRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return BadRequest(c, "name is required")
	}

	h.model.AddProperty(req.Name)
	return Success(c, h.model.Columns())
}

// RemoveProperty handles DELETE /v1/report/columns/properties/:name
// Removes a property column. Built-in columns cannot be removed; the
// call is a no-op for them.
func (h *ColumnsHandler) RemoveProperty(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return BadRequest(c, "name is required")
	}

	h.model.RemoveProperty(name)
	return Success(c, h.model.Columns())
}
