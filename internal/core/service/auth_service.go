package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
	"github.com/readstack/library-system/internal/pkg/password"
)

// AuthOptions carries the optional collaborators of the AuthService.
type AuthOptions struct {
	// AutoProvision creates an account on first-seen Basic credentials
	// instead of rejecting them. Off unless explicitly enabled.
	AutoProvision bool
	// Throttle, when set, limits failed Basic attempts per username.
	Throttle ports.SignInThrottle
	// Audit, when set, receives every authentication decision.
	Audit ports.AuditSink
}

// AuthService resolves raw credentials to identities and provisions accounts.
// All collaborators are injected; there is no package-level store handle.
type AuthService struct {
	users  ports.UserRepository
	hasher password.Hasher
	codec  *TokenCodec
	opts   AuthOptions
}

func NewAuthService(users ports.UserRepository, hasher password.Hasher, codec *TokenCodec, opts AuthOptions) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, opts: opts}
}

// DecodeBasic resolves a base64 "username:secret" payload to a user.
// Unknown username and wrong secret both surface as ErrInvalidCredentials so
// callers cannot distinguish the two. With auto-provision enabled, an unseen
// username creates a new account with role "user" instead.
func (s *AuthService) DecodeBasic(ctx context.Context, encoded string) (*domain.User, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// The secret may itself contain colons; split on the first only.
	username, secret, ok := strings.Cut(string(raw), ":")
	if !ok || username == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.attemptAllowed(ctx, username) {
		s.record(username, "Basic", domain.AuthOutcomeRejected)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if !s.hasher.Verify(secret, user.PasswordHash) {
			if s.opts.Throttle != nil {
				_ = s.opts.Throttle.RecordFailure(ctx, username)
			}
			s.record(username, "Basic", domain.AuthOutcomeRejected)
			return nil, domain.ErrInvalidCredentials
		}
		if s.opts.Throttle != nil {
			_ = s.opts.Throttle.Reset(ctx, username)
		}
		s.record(username, "Basic", domain.AuthOutcomeAccepted)
		return user, nil

	case errors.Is(err, domain.ErrUserNotFound):
		if !s.opts.AutoProvision {
			s.record(username, "Basic", domain.AuthOutcomeRejected)
			return nil, domain.ErrInvalidCredentials
		}
		return s.provision(ctx, username, secret)

	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// provision creates a first-seen account. Concurrent first logins race on the
// store's unique username index; the loser surfaces as an authentication
// failure, never a crash.
func (s *AuthService) provision(ctx context.Context, username, secret string) (*domain.User, error) {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(username, "Basic", domain.AuthOutcomeRejected)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("provision user: %w", err)
	}

	s.record(username, "Basic", domain.AuthOutcomeProvisioned)
	return created, nil
}

// DecodeBearer verifies a session token and resolves its subject. An invalid
// or expired token, or a token whose user has since been deleted, yields
// ErrInvalidCredentials.
func (s *AuthService) DecodeBearer(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.codec.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.record(user.Username, "Bearer", domain.AuthOutcomeAccepted)
	return user, nil
}

// IssueToken mints a fresh session token for user, honoring a per-request TTL
// override when it parses as a positive integer number of seconds.
func (s *AuthService) IssueToken(user *domain.User, ttlOverride string) (string, error) {
	token, err := s.codec.IssueWithOverride(user.ID, ttlOverride)
	if err != nil {
		// Signing failures indicate bad input data, not infrastructure loss.
		return "", domain.ErrInvalidCredentials
	}
	return token, nil
}

// Register provisions an account explicitly, decoupled from sign-in.
// An empty role defaults to "user".
func (s *AuthService) Register(ctx context.Context, username, plaintext, email, role string) (*domain.User, error) {
	if username == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// attemptAllowed consults the throttle. A throttle backend failure fails open
// so a Redis outage cannot lock everyone out.
func (s *AuthService) attemptAllowed(ctx context.Context, username string) bool {
	if s.opts.Throttle == nil {
		return true
	}
	ok, err := s.opts.Throttle.Allowed(ctx, username)
	if err != nil {
		return true
	}
	return ok
}

func (s *AuthService) record(username, scheme, outcome string) {
	if s.opts.Audit == nil {
		return
	}
	s.opts.Audit.Enqueue(domain.AuthEvent{
		Username:   username,
		Scheme:     scheme,
		Outcome:    outcome,
		OccurredAt: time.Now().UTC(),
	})
}
