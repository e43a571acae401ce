package user

import (
	"context"
	"errors"
	"time"

	"github.com/blagoySimandov/astra/go/internal/models"
)

var ErrNotFound = errors.New("user profile not found")

// ProfileDefaults are written on a profile's first save only.
type ProfileDefaults struct {
	Subscription models.Subscription
	Usage        models.Usage
}

// Repository is a per-user document store with merge-write semantics. Every
// method is a single store operation keyed by the user id.
type Repository interface {
	// UpsertUser creates the document if missing and refreshes email and
	// updatedAt. createdAt is only set on creation.
	UpsertUser(ctx context.Context, userID, email string, now time.Time) error
	// MergeBrandProfile merges fields into the stored brand profile,
	// preserving keys not present in fields, and applies defaults to a
	// document that has no subscription/usage yet.
	MergeBrandProfile(ctx context.Context, userID, email string, fields map[string]any, defaults ProfileDefaults, now time.Time) error
	// GetByID returns ErrNotFound when no document exists.
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	Close() error
}
