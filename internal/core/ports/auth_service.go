package ports

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
)

// CredentialDecoder resolves raw Authorization header payloads to identities.
// Both entry points return domain.ErrInvalidCredentials for every
// authentication failure; other errors indicate a backend problem.
type CredentialDecoder interface {
	DecodeBasic(ctx context.Context, encoded string) (*domain.User, error)
	DecodeBearer(ctx context.Context, token string) (*domain.User, error)
	IssueToken(user *domain.User, ttlOverride string) (string, error)
}

// AuthService is the full authentication surface: header decoding plus
// explicit account provisioning.
type AuthService interface {
	CredentialDecoder
	Register(ctx context.Context, username, password, email, role string) (*domain.User, error)
}
