package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("user not found")
)

type (
	Repository interface {
		GetUserByID(ctx context.Context, id string) (User, error)
		// UpsertUser inserts the user or, on id conflict, updates its identity
		// attributes. Atomic at the storage layer.
		UpsertUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		GetByID(ctx context.Context, id string) (User, error)
		Sync(ctx context.Context, uu UpsertUser) (User, error)
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

// Sync upserts the authenticated principal from its provider claims.
// Called on every authenticated identity fetch so the local projection
// follows provider-side profile changes.
func (svc *service) Sync(ctx context.Context, uu UpsertUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uu.ID,
		Email:     uu.Email,
		FirstName: uu.FirstName,
		LastName:  uu.LastName,
		AvatarURL: uu.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertUser(ctx, usr)
}
