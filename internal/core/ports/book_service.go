package ports

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
)

// BookUpdateInput carries the mutable book fields. Nil pointers mean
// "keep the current value" on partial updates.
type BookUpdateInput struct {
	Title  *string
	Author *string
	Auth   []string
}

type BookService interface {
	// ListVisible returns the books the given role may see.
	ListVisible(ctx context.Context, role string) ([]domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// Replace overwrites every mutable field of the book with id.
	Replace(ctx context.Context, id string, in BookUpdateInput) error
	// Patch merges the supplied fields into the book with id.
	Patch(ctx context.Context, id string, in BookUpdateInput) error
	Delete(ctx context.Context, id string) error
}
