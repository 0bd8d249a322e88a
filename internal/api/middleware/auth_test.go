package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/core/domain"
)

// stubDecoder resolves fixed credentials without any backend.
type stubDecoder struct {
	users    map[string]*domain.User // username:secret -> user
	tokens   map[string]*domain.User
	storeErr error
	issued   []string
}

func newStubDecoder() *stubDecoder {
	return &stubDecoder{
		users:  make(map[string]*domain.User),
		tokens: make(map[string]*domain.User),
	}
}

func (d *stubDecoder) DecodeBasic(_ context.Context, encoded string) (*domain.User, error) {
	if d.storeErr != nil {
		return nil, d.storeErr
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user, ok := d.users[string(raw)]; ok {
		return user, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (d *stubDecoder) DecodeBearer(_ context.Context, token string) (*domain.User, error) {
	if user, ok := d.tokens[token]; ok {
		return user, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (d *stubDecoder) IssueToken(user *domain.User, override string) (string, error) {
	token := fmt.Sprintf("token-%s-%d", user.Username, len(d.issued))
	d.issued = append(d.issued, override)
	return token, nil
}

func basicHeader(username, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+secret))
}

func runAuth(t *testing.T, decoder *stubDecoder, optional bool, header string, extra map[string]string) (*httptest.ResponseRecorder, echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/signin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(decoder, optional)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, called, err
}

func expectHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if he.Message != message {
		t.Fatalf("expected message %q, got %v", message, he.Message)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, called, err := runAuth(t, newStubDecoder(), false, "", nil)
	if called {
		t.Fatalf("next must not run without credentials")
	}
	expectHTTPError(t, err, http.StatusBadRequest, "Missing request headers!")
}

func TestAuth_MalformedHeaderHalts(t *testing.T) {
	for _, header := range []string{"ifjaffn", "three word header", "Basic"} {
		_, _, called, err := runAuth(t, newStubDecoder(), false, header, nil)
		if called {
			t.Fatalf("next must not run after malformed header %q", header)
		}
		expectHTTPError(t, err, http.StatusBadRequest, "Incorrect format of request header")
	}
}

func TestAuth_UnsupportedScheme(t *testing.T) {
	_, _, called, err := runAuth(t, newStubDecoder(), false, "Weird abc123", nil)
	if called {
		t.Fatalf("next must not run for unsupported scheme")
	}
	expectHTTPError(t, err, http.StatusBadRequest, "Neither Basic nor Bearer request header")
}

func TestAuth_SchemeIsCaseSensitive(t *testing.T) {
	decoder := newStubDecoder()
	decoder.users["sarah:sarahpassword"] = &domain.User{ID: "1", Username: "sarah", Role: "admin"}

	header := "basic " + base64.StdEncoding.EncodeToString([]byte("sarah:sarahpassword"))
	_, _, called, err := runAuth(t, decoder, false, header, nil)
	if called {
		t.Fatalf("lowercase scheme must not match")
	}
	expectHTTPError(t, err, http.StatusBadRequest, "Neither Basic nor Bearer request header")
}

func TestAuth_BasicSuccessAttachesUserAndToken(t *testing.T) {
	decoder := newStubDecoder()
	decoder.users["sarah:sarahpassword"] = &domain.User{ID: "1", Username: "sarah", Role: "admin"}

	rec, c, called, err := runAuth(t, decoder, false, basicHeader("sarah", "sarahpassword"), nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	user, _ := c.Get(ContextUserKey).(*domain.User)
	if user == nil || user.Username != "sarah" {
		t.Fatalf("user not attached: %+v", user)
	}
	if token, _ := c.Get(ContextTokenKey).(string); token == "" {
		t.Fatalf("token not attached")
	}
}

func TestAuth_BearerSuccess(t *testing.T) {
	decoder := newStubDecoder()
	decoder.tokens["valid-token"] = &domain.User{ID: "2", Username: "rene", Role: "user"}

	_, c, called, err := runAuth(t, decoder, false, "Bearer valid-token", nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	user, _ := c.Get(ContextUserKey).(*domain.User)
	if user == nil || user.Username != "rene" {
		t.Fatalf("user not attached: %+v", user)
	}
}

func TestAuth_RejectedCredentials(t *testing.T) {
	_, _, called, err := runAuth(t, newStubDecoder(), false, basicHeader("ghost", "pw"), nil)
	if called {
		t.Fatalf("next must not run for rejected credentials")
	}
	expectHTTPError(t, err, http.StatusUnauthorized, "User not found from credentials")
}

func TestAuth_TimeoutHeaderForwardedToIssuer(t *testing.T) {
	decoder := newStubDecoder()
	decoder.users["sarah:sarahpassword"] = &domain.User{ID: "1", Username: "sarah", Role: "admin"}

	_, _, _, err := runAuth(t, decoder, false, basicHeader("sarah", "sarahpassword"), map[string]string{TimeoutHeader: "120"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(decoder.issued) != 1 || decoder.issued[0] != "120" {
		t.Fatalf("timeout override not forwarded: %v", decoder.issued)
	}
}

func TestAuth_BackendFailureIsNot401(t *testing.T) {
	decoder := newStubDecoder()
	decoder.storeErr = errors.New("store unreachable")

	_, _, called, err := runAuth(t, decoder, false, basicHeader("sarah", "sarahpassword"), nil)
	if called {
		t.Fatalf("next must not run on backend failure")
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		t.Fatalf("backend failure must not be a typed auth error, got %v", he)
	}
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestAuth_OptionalModeProceedsAnonymously(t *testing.T) {
	decoder := newStubDecoder()
	decoder.storeErr = nil

	// Every failure branch proceeds with no identity attached.
	for _, header := range []string{"", "ifjaffn", "Weird abc123", basicHeader("ghost", "pw")} {
		rec, c, called, err := runAuth(t, decoder, true, header, nil)
		if err != nil {
			t.Fatalf("optional mode must not fail for %q: %v", header, err)
		}
		if !called {
			t.Fatalf("next not called for %q", header)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", header, rec.Code)
		}
		if user := c.Get(ContextUserKey); user != nil {
			t.Fatalf("no identity should be attached for %q", header)
		}
	}
}

func TestAuth_OptionalModeStillAuthenticates(t *testing.T) {
	decoder := newStubDecoder()
	decoder.users["sarah:sarahpassword"] = &domain.User{ID: "1", Username: "sarah", Role: "admin"}

	_, c, called, err := runAuth(t, decoder, true, basicHeader("sarah", "sarahpassword"), nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	user, _ := c.Get(ContextUserKey).(*domain.User)
	if user == nil || user.Username != "sarah" {
		t.Fatalf("valid credentials should still attach the user in optional mode")
	}
}
