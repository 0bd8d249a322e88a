package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

type stubBookRepo struct {
	books  map[string]*domain.Book
	nextID int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) FindAll(context.Context) ([]domain.Book, error) {
	out := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	if b, ok := r.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, domain.ErrBookNotFound
}

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	r.nextID++
	created := *book
	created.ID = strconv.Itoa(r.nextID)
	r.books[created.ID] = &created
	return &created, nil
}

func (r *stubBookRepo) Update(_ context.Context, id string, book *domain.Book) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	next := *book
	next.ID = id
	r.books[id] = &next
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func seedBooks(t *testing.T, svc *BookService) {
	t.Helper()
	fixtures := []domain.Book{
		{Title: "Alice in Wonderland", Auth: []string{"admin", "editor", "user"}},
		{Title: "Hamlet", Auth: []string{"admin", "editor"}},
		{Title: "Brave New World", Auth: []string{"admin"}},
	}
	for i := range fixtures {
		if _, err := svc.Create(context.Background(), &fixtures[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestBookService_ListVisible(t *testing.T) {
	svc := NewBookService(newStubBookRepo())
	seedBooks(t, svc)

	cases := []struct {
		role string
		want int
	}{
		{"admin", 3},
		{"editor", 2},
		{"user", 1},
		{"", 0},
	}
	for _, tc := range cases {
		books, err := svc.ListVisible(context.Background(), tc.role)
		if err != nil {
			t.Fatalf("list for %q: %v", tc.role, err)
		}
		if len(books) != tc.want {
			t.Fatalf("role %q: expected %d books, got %d", tc.role, tc.want, len(books))
		}
	}
}

func TestBookService_Replace_ClearsAbsentFields(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo)

	created, err := svc.Create(context.Background(), &domain.Book{
		Title: "Hamlet", Author: "Shakespeare", Auth: []string{"admin"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Hamlet, Revised"
	if err := svc.Replace(context.Background(), created.ID, ports.BookUpdateInput{Title: &title}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), created.ID)
	if got.Title != title {
		t.Fatalf("title not replaced: %q", got.Title)
	}
	if got.Author != "" || len(got.Auth) != 0 {
		t.Fatalf("replace must clear absent fields, got author=%q auth=%v", got.Author, got.Auth)
	}
}

func TestBookService_Patch_KeepsAbsentFields(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo)

	created, err := svc.Create(context.Background(), &domain.Book{
		Title: "Hamlet", Author: "Shakespeare", Auth: []string{"admin"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Hamlet, Annotated"
	if err := svc.Patch(context.Background(), created.ID, ports.BookUpdateInput{Title: &title}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), created.ID)
	if got.Title != title {
		t.Fatalf("title not patched: %q", got.Title)
	}
	if got.Author != "Shakespeare" || len(got.Auth) != 1 {
		t.Fatalf("patch must keep absent fields, got author=%q auth=%v", got.Author, got.Auth)
	}
}

func TestBookService_UpdateMissing(t *testing.T) {
	svc := NewBookService(newStubBookRepo())

	title := "x"
	if err := svc.Replace(context.Background(), "missing", ports.BookUpdateInput{Title: &title}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	if err := svc.Patch(context.Background(), "missing", ports.BookUpdateInput{Title: &title}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}
