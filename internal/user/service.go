package user

import (
	"context"
	"errors"
	"time"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/auth"
	"github.com/blagoySimandov/astra/go/internal/billing"
	"github.com/blagoySimandov/astra/go/internal/models"
)

const (
	msgStoreUnavailable = "Database service unavailable."
	msgInvalidData      = "Invalid data."
	msgCreateFailed     = "Failed to create user document."
	msgSaveFailed       = "Failed to save profile."
	msgGetFailed        = "Failed to get user profile."
	msgNotFound         = "User profile not found."
)

var errStoreUnconfigured = errors.New("profile store is not configured")

type Service interface {
	CreateUserRecord(ctx context.Context, principal *auth.Principal) error
	SaveProfile(ctx context.Context, principal *auth.Principal, profile *models.BrandProfile) error
	GetProfile(ctx context.Context, principal *auth.Principal) (*models.UserProfile, error)
	Configured() bool
}

// UserService owns the profile contract on top of a Repository. A nil
// repository means the store was never configured; every call then fails
// with ServiceUnavailable instead of reaching the store.
type UserService struct {
	repo Repository
	now  func() time.Time
}

func NewUserService(repo Repository) *UserService {
	return &UserService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Configured() bool {
	return s.repo != nil
}

func (s *UserService) CreateUserRecord(ctx context.Context, principal *auth.Principal) error {
	if !s.Configured() {
		return apperr.Wrap(apperr.ServiceUnavailable, msgStoreUnavailable, errStoreUnconfigured)
	}
	if err := s.repo.UpsertUser(ctx, principal.UID, principal.Email, s.now()); err != nil {
		return apperr.Wrap(apperr.InternalFailure, msgCreateFailed, err)
	}
	return nil
}

func (s *UserService) SaveProfile(ctx context.Context, principal *auth.Principal, profile *models.BrandProfile) error {
	if profile == nil {
		return apperr.New(apperr.BadRequest, msgInvalidData)
	}
	if err := profile.Validate(); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid brandProfile: "+err.Error(), err)
	}
	if !s.Configured() {
		return apperr.Wrap(apperr.ServiceUnavailable, msgStoreUnavailable, errStoreUnconfigured)
	}

	defaults := ProfileDefaults{
		Subscription: billing.DefaultSubscription(),
		Usage:        billing.DefaultUsage(),
	}
	if err := s.repo.MergeBrandProfile(ctx, principal.UID, principal.Email, profile.Fields(), defaults, s.now()); err != nil {
		return apperr.Wrap(apperr.InternalFailure, msgSaveFailed, err)
	}
	return nil
}

// GetProfile returns a NotFound error both for a missing document and for
// a document that was created without a brand profile.
func (s *UserService) GetProfile(ctx context.Context, principal *auth.Principal) (*models.UserProfile, error) {
	if !s.Configured() {
		return nil, apperr.Wrap(apperr.ServiceUnavailable, msgStoreUnavailable, errStoreUnconfigured)
	}

	profile, err := s.repo.GetByID(ctx, principal.UID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Wrap(apperr.NotFound, msgNotFound, err)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalFailure, msgGetFailed, err)
	}
	if profile.BrandProfile == nil {
		return nil, apperr.New(apperr.NotFound, msgNotFound)
	}
	profile.Subscription = billing.ResolveSubscription(profile.Subscription)
	return profile, nil
}
