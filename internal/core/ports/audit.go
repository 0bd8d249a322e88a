package ports

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
)

// AuditRecorder persists authentication decisions.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditSink accepts events for asynchronous recording. Implementations must
// not block the caller beyond channel buffering.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
