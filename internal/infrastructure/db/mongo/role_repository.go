package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/readstack/library-system/internal/core/domain"
)

const rolesCollection = "roles"

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	Role         string   `bson:"role"`
	Capabilities []string `bson:"capabilities"`
}

// FindByRole resolves a role name to its capability grant. Called fresh on
// every authorization check; never cached on the user.
func (r *RoleRepository) FindByRole(ctx context.Context, role string) (*domain.RoleGrant, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"role": role}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.RoleGrant{Role: mr.Role, Capabilities: mr.Capabilities}, nil
}

func (r *RoleRepository) Create(ctx context.Context, grant *domain.RoleGrant) error {
	_, err := r.coll.InsertOne(ctx, mongoRole{Role: grant.Role, Capabilities: grant.Capabilities})
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// Seed installs the default role grants when the collection is empty.
func (r *RoleRepository) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, grant := range domain.DefaultGrants {
		if err := r.Create(ctx, &grant); err != nil {
			return err
		}
	}
	return nil
}

// CountAll satisfies ports.ModelReader.
func (r *RoleRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return n, nil
}

// AllRecords satisfies ports.ModelReader.
func (r *RoleRepository) AllRecords(ctx context.Context) ([]any, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var out []any
	for cur.Next(ctx) {
		var mr mongoRole
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		out = append(out, domain.RoleGrant{Role: mr.Role, Capabilities: mr.Capabilities})
	}
	return out, cur.Err()
}

// RecordByID satisfies ports.ModelReader; roles are keyed by name.
func (r *RoleRepository) RecordByID(ctx context.Context, id string) (any, error) {
	grant, err := r.FindByRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// EnsureIndexes creates the unique role-name index.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
