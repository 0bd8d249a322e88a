package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/api/middleware"
	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

type stubBookService struct {
	listFn    func(ctx context.Context, role string) ([]domain.Book, error)
	createFn  func(ctx context.Context, book *domain.Book) (*domain.Book, error)
	replaceFn func(ctx context.Context, id string, in ports.BookUpdateInput) error
	patchFn   func(ctx context.Context, id string, in ports.BookUpdateInput) error
	deleteFn  func(ctx context.Context, id string) error
}

func (s *stubBookService) ListVisible(ctx context.Context, role string) ([]domain.Book, error) {
	return s.listFn(ctx, role)
}

func (s *stubBookService) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	return s.createFn(ctx, book)
}

func (s *stubBookService) Replace(ctx context.Context, id string, in ports.BookUpdateInput) error {
	return s.replaceFn(ctx, id, in)
}

func (s *stubBookService) Patch(ctx context.Context, id string, in ports.BookUpdateInput) error {
	return s.patchFn(ctx, id, in)
}

func (s *stubBookService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func newBookContext(t *testing.T, method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
	}
	return c, rec
}

func TestBookHandler_List_FiltersByRole(t *testing.T) {
	stub := &stubBookService{
		listFn: func(_ context.Context, role string) ([]domain.Book, error) {
			if role != "editor" {
				t.Fatalf("expected editor role, got %q", role)
			}
			return []domain.Book{
				{Title: "Alice in Wonderland", Auth: []string{"admin", "editor", "user"}},
				{Title: "Hamlet", Auth: []string{"admin", "editor"}},
			}, nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newBookContext(t, http.MethodGet, "/books", "", &domain.User{Username: "bill", Role: "editor"})
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 books, got %d", len(resp))
	}
	if _, leaked := resp[0]["auth"]; leaked {
		t.Fatalf("visibility list must not serialize in list responses")
	}
}

func TestBookHandler_List_EmptyIsForbidden(t *testing.T) {
	stub := &stubBookService{
		listFn: func(context.Context, string) ([]domain.Book, error) {
			return nil, nil
		},
	}
	handler := NewBookHandler(stub)

	c, _ := newBookContext(t, http.MethodGet, "/books", "", nil)
	err := handler.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden || he.Message != "You cannot access any books!" {
		t.Fatalf("unexpected error: %d %v", he.Code, he.Message)
	}
}

func TestBookHandler_Create(t *testing.T) {
	stub := &stubBookService{
		createFn: func(_ context.Context, book *domain.Book) (*domain.Book, error) {
			if book.Title != "Brave New World" {
				t.Fatalf("unexpected title %q", book.Title)
			}
			return book, nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newBookContext(t, http.MethodPost, "/books",
		`{"title":"Brave New World","author":"Huxley","auth":["admin"]}`,
		&domain.User{Username: "sarah", Role: "admin"})
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You created a book!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestBookHandler_Create_RejectsUnknownRole(t *testing.T) {
	handler := NewBookHandler(&stubBookService{
		createFn: func(context.Context, *domain.Book) (*domain.Book, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	})

	c, rec := newBookContext(t, http.MethodPost, "/books",
		`{"title":"x","auth":["wizard"]}`, &domain.User{Role: "admin"})
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBookHandler_Update_NotFound(t *testing.T) {
	stub := &stubBookService{
		replaceFn: func(context.Context, string, ports.BookUpdateInput) error {
			return domain.ErrBookNotFound
		},
	}
	handler := NewBookHandler(stub)

	c, _ := newBookContext(t, http.MethodPut, "/books/missing", `{"title":"x"}`, &domain.User{Role: "admin"})
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := handler.Replace(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusNotFound || he.Message != "Cannot find this book" {
		t.Fatalf("unexpected error: %d %v", he.Code, he.Message)
	}
}

func TestBookHandler_Patch_ForwardsOnlySuppliedFields(t *testing.T) {
	stub := &stubBookService{
		patchFn: func(_ context.Context, id string, in ports.BookUpdateInput) error {
			if id != "42" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Title == nil || *in.Title != "New Title" {
				t.Fatalf("title not forwarded: %v", in.Title)
			}
			if in.Author != nil {
				t.Fatalf("absent author must stay nil")
			}
			return nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newBookContext(t, http.MethodPatch, "/books/42", `{"title":"New Title"}`, &domain.User{Role: "editor"})
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := handler.Patch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubBookService{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newBookContext(t, http.MethodDelete, "/books/7", "", &domain.User{Role: "admin"})
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || deleted != "7" {
		t.Fatalf("delete not applied: code=%d id=%q", rec.Code, deleted)
	}
}
