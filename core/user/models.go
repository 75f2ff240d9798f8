package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edusuivi/hebdo/core"
)

// User is an authenticated principal. Identity lives with the external
// provider; this record is a synced projection keyed by the provider's
// stable subject id.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UpsertUser contains the identity attributes synced on every login.
type UpsertUser struct {
	ID        string `json:"id" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

func (uu *UpsertUser) Validate(validate *validator.Validate) error {
	uu.ID = core.CleanString(uu.ID)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)
	return validate.Struct(uu)
}
