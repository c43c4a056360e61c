package posts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dashboard/internal/models"
)

const (
	// AnonymousEmail identifies the placeholder author. users.email is
	// UNIQUE, so at most one placeholder can exist.
	AnonymousEmail = "anonymous@example.com"
	AnonymousName  = "Anonymous User"
)

// GetOrCreateAnonymousIdentity returns the placeholder author, creating it on
// first use. Two concurrent first calls race on the insert; the loser gets
// ErrDuplicateEmail and reads back the winner's row.
func GetOrCreateAnonymousIdentity(ctx context.Context, store Store) (*models.User, error) {
	u, err := store.FindUserByEmail(ctx, AnonymousEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u = &models.User{
		ID:            uuid.NewString(),
		Name:          AnonymousName,
		Email:         AnonymousEmail,
		EmailVerified: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = store.InsertUser(ctx, u)
	if errors.Is(err, models.ErrDuplicateEmail) {
		return store.FindUserByEmail(ctx, AnonymousEmail)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
