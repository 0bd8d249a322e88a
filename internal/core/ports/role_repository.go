package ports

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
)

// RoleRepository resolves role names to capability grants.
type RoleRepository interface {
	FindByRole(ctx context.Context, role string) (*domain.RoleGrant, error)
	Create(ctx context.Context, grant *domain.RoleGrant) error
}
