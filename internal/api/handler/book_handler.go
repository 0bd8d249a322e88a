package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books. Auth is optional on this route: anonymous callers
// reach the handler with no role and therefore see no books, which renders as
// a 403 rather than an empty list.
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListVisible(c.Request().Context(), currentRole(c))
	if err != nil {
		return err
	}

	if len(books) == 0 {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot access any books!")
	}

	out := make([]bookSummaryResponse, 0, len(books))
	for _, b := range books {
		out = append(out, bookSummaryResponse{Title: b.Title, Author: b.Author})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /books. The "create" capability gate runs before this
// handler.
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	_, err := h.service.Create(c.Request().Context(), &domain.Book{
		Title:  req.Title,
		Author: req.Author,
		Auth:   req.Auth,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, "You created a book!")
}

// Replace handles PUT /books/:id with full-replacement semantics.
func (h *BookHandler) Replace(c echo.Context) error {
	return h.update(c, h.service.Replace)
}

// Patch handles PATCH /books/:id, merging only the supplied fields.
func (h *BookHandler) Patch(c echo.Context) error {
	return h.update(c, h.service.Patch)
}

func (h *BookHandler) update(c echo.Context, apply func(ctx context.Context, id string, in ports.BookUpdateInput) error) error {
	var req bookUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	err := apply(c.Request().Context(), c.Param("id"), ports.BookUpdateInput{
		Title:  req.Title,
		Author: req.Author,
		Auth:   req.Auth,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cannot find this book")
		}
		return err
	}

	return c.JSON(http.StatusOK, "Successfully updated book")
}

// Delete handles DELETE /books/:id. The "delete" capability gate runs before
// this handler.
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cannot find this book")
		}
		return err
	}
	return c.JSON(http.StatusOK, "Successfully deleted book")
}
