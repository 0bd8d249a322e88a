package ports

import "context"

// SignInThrottle limits repeated failed basic-auth attempts per username.
type SignInThrottle interface {
	// Allowed reports whether another attempt may proceed for username.
	Allowed(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt against username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful authentication.
	Reset(ctx context.Context, username string) error
}
