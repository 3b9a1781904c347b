package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/utils"
)

// UserStore is the part of the user repository the seeder needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// EnsureAdmin creates an admin account for email unless one already exists.
// It is a no-op when email or password is empty.  The returned bool reports
// whether a user was created.
func EnsureAdmin(ctx context.Context, users UserStore, hasher utils.PasswordHasher, name, email, password string) (bool, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return false, err
	}
	u := &model.User{Name: strings.TrimSpace(name), Email: email, PasswordHash: hash, Role: model.RoleAdmin}
	if err := u.Validate(); err != nil {
		return false, err
	}
	if err := users.Create(ctx, u); err != nil {
		return false, err
	}
	log.Printf("bootstrap: created admin %s", email)
	return true, nil
}
