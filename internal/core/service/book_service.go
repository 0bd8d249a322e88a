package service

import (
	"context"
	"fmt"
	"time"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// BookService implements catalog operations over the book repository.
type BookService struct {
	books ports.BookRepository
}

func NewBookService(books ports.BookRepository) *BookService {
	return &BookService{books: books}
}

// ListVisible returns the books whose auth list includes role. An empty role
// (anonymous caller) sees nothing.
func (s *BookService) ListVisible(ctx context.Context, role string) ([]domain.Book, error) {
	all, err := s.books.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	visible := make([]domain.Book, 0, len(all))
	for _, b := range all {
		if b.VisibleTo(role) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

func (s *BookService) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now
	if book.Auth == nil {
		book.Auth = []string{}
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return created, nil
}

// Replace overwrites all mutable fields; absent input fields become zero
// values, matching full-PUT semantics.
func (s *BookService) Replace(ctx context.Context, id string, in ports.BookUpdateInput) error {
	current, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}

	next := domain.Book{
		ID:        current.ID,
		CreatedAt: current.CreatedAt,
		UpdatedAt: time.Now().UTC(),
		Auth:      []string{},
	}
	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Author != nil {
		next.Author = *in.Author
	}
	if in.Auth != nil {
		next.Auth = in.Auth
	}
	return s.books.Update(ctx, id, &next)
}

// Patch merges supplied fields into the stored record, keeping the rest.
func (s *BookService) Patch(ctx context.Context, id string, in ports.BookUpdateInput) error {
	current, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}

	next := *current
	next.UpdatedAt = time.Now().UTC()
	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Author != nil {
		next.Author = *in.Author
	}
	if in.Auth != nil {
		next.Auth = in.Auth
	}
	return s.books.Update(ctx, id, &next)
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}
