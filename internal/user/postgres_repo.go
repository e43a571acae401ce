package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blagoySimandov/astra/go/internal/models"
	"github.com/uptrace/bun"
)

// UserProfileDB is the user_profiles row. Subscription and usage columns
// stay NULL until the first brand profile save.
type UserProfileDB struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	ID                   string         `bun:"id,pk"`
	Email                string         `bun:"email,notnull"`
	BrandProfile         map[string]any `bun:"brand_profile,type:jsonb"`
	SubscriptionPlan     *string        `bun:"subscription_plan"`
	SubscriptionStatus   *string        `bun:"subscription_status"`
	GenerationsThisMonth *int           `bun:"generations_this_month"`
	CreatedAt            time.Time      `bun:"created_at,notnull"`
	UpdatedAt            time.Time      `bun:"updated_at,notnull"`
}

func (row *UserProfileDB) ToUserProfile() (*models.UserProfile, error) {
	profile := &models.UserProfile{
		ID:        row.ID,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.SubscriptionPlan != nil {
		profile.Subscription.Plan = *row.SubscriptionPlan
	}
	if row.SubscriptionStatus != nil {
		profile.Subscription.Status = *row.SubscriptionStatus
	}
	if row.GenerationsThisMonth != nil {
		profile.Usage.GenerationsThisMonth = *row.GenerationsThisMonth
	}
	if row.BrandProfile != nil {
		brand, err := models.BrandProfileFromMap(row.BrandProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to decode brand_profile for %s: %w", row.ID, err)
		}
		profile.BrandProfile = brand
	}
	return profile, nil
}

const upsertUserSQL = `
INSERT INTO user_profiles (id, email, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	email = EXCLUDED.email,
	updated_at = EXCLUDED.updated_at`

// The || operator replaces top-level keys present on the right and keeps
// everything else, which is exactly a merge write of the brand profile.
const mergeBrandProfileSQL = `
INSERT INTO user_profiles (id, email, brand_profile, subscription_plan, subscription_status, generations_this_month, created_at, updated_at)
VALUES (?, ?, ?::jsonb, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	email = EXCLUDED.email,
	brand_profile = COALESCE(user_profiles.brand_profile, '{}'::jsonb) || EXCLUDED.brand_profile,
	subscription_plan = COALESCE(user_profiles.subscription_plan, EXCLUDED.subscription_plan),
	subscription_status = COALESCE(user_profiles.subscription_status, EXCLUDED.subscription_status),
	generations_this_month = COALESCE(user_profiles.generations_this_month, EXCLUDED.generations_this_month),
	updated_at = EXCLUDED.updated_at`

type PostgresRepository struct {
	db *bun.DB
}

func NewPostgresRepository(db *bun.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitializeDatabase creates the table when migrations were not run.
func (r *PostgresRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*UserProfileDB)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *PostgresRepository) UpsertUser(ctx context.Context, userID, email string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL, userID, email, now, now)
	return err
}

func (r *PostgresRepository) MergeBrandProfile(ctx context.Context, userID, email string, fields map[string]any, defaults ProfileDefaults, now time.Time) error {
	brandJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode brand profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, mergeBrandProfileSQL,
		userID,
		email,
		string(brandJSON),
		defaults.Subscription.Plan,
		defaults.Subscription.Status,
		defaults.Usage.GenerationsThisMonth,
		now,
		now,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	row := new(UserProfileDB)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToUserProfile()
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
