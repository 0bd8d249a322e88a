package ports

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
)

// BookRepository defines the interface for book persistence.
type BookRepository interface {
	FindAll(ctx context.Context) ([]domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, id string, book *domain.Book) error
	Delete(ctx context.Context, id string) error
}

// ModelReader is the read-only surface exposed through the generic /model
// routes. Every registered model satisfies it.
type ModelReader interface {
	CountAll(ctx context.Context) (int64, error)
	AllRecords(ctx context.Context) ([]any, error)
	RecordByID(ctx context.Context, id string) (any, error)
}
