package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// ModelHandler serves the generic inspection routes over registered models.
// The registry maps URL names to read-only repository views; an unknown name
// is a 404, not a dynamic lookup.
type ModelHandler struct {
	registry map[string]ports.ModelReader
}

func NewModelHandler(registry map[string]ports.ModelReader) *ModelHandler {
	return &ModelHandler{registry: registry}
}

type modelSummaryResponse struct {
	Model   string `json:"model"`
	Count   int64  `json:"count"`
	Records []any  `json:"records,omitempty"`
}

// Summary handles GET /model/:name. Auth is optional: everyone gets the
// record count, admins additionally get the full records.
func (h *ModelHandler) Summary(c echo.Context) error {
	reader, ok := h.registry[c.Param("name")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Cannot find requested model")
	}

	ctx := c.Request().Context()
	count, err := reader.CountAll(ctx)
	if err != nil {
		return err
	}

	resp := modelSummaryResponse{Model: c.Param("name"), Count: count}
	if currentRole(c) == domain.RoleAdmin {
		records, err := reader.AllRecords(ctx)
		if err != nil {
			return err
		}
		resp.Records = records
	}

	return c.JSON(http.StatusOK, resp)
}

// Record handles GET /model/:name/:id. Admin only.
func (h *ModelHandler) Record(c echo.Context) error {
	reader, ok := h.registry[c.Param("name")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Cannot find requested model")
	}

	record, err := reader.RecordByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) || errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrRoleNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unable to find record")
		}
		return err
	}

	return c.JSON(http.StatusOK, record)
}
