package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/blagoySimandov/astra/go/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "astra:user:"

	fieldID                   = "id"
	fieldEmail                = "email"
	fieldCreatedAt            = "createdAt"
	fieldUpdatedAt            = "updatedAt"
	fieldSubscriptionPlan     = "subscriptionPlan"
	fieldSubscriptionStatus   = "subscriptionStatus"
	fieldGenerationsThisMonth = "generationsThisMonth"
	fieldHasBrandProfile      = "hasBrandProfile"
)

// RedisRepository stores a user as two hashes: scalar fields under
// astra:user:<id> and one JSON-encoded value per brand attribute under
// astra:user:<id>:brand. HSET on the brand hash is the merge write.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func userKey(userID string) string {
	return redisKeyPrefix + userID
}

func brandKey(userID string) string {
	return redisKeyPrefix + userID + ":brand"
}

func (r *RedisRepository) UpsertUser(ctx context.Context, userID, email string, now time.Time) error {
	key := userKey(userID)
	stamp := now.Format(time.RFC3339Nano)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldID, userID, fieldEmail, email, fieldUpdatedAt, stamp)
		pipe.HSetNX(ctx, key, fieldCreatedAt, stamp)
		return nil
	})
	return err
}

func (r *RedisRepository) MergeBrandProfile(ctx context.Context, userID, email string, fields map[string]any, defaults ProfileDefaults, now time.Time) error {
	key := userKey(userID)
	stamp := now.Format(time.RFC3339Nano)

	brandValues := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode brand attribute %q: %w", k, err)
		}
		brandValues = append(brandValues, k, string(encoded))
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldID, userID, fieldEmail, email, fieldUpdatedAt, stamp, fieldHasBrandProfile, "1")
		pipe.HSetNX(ctx, key, fieldCreatedAt, stamp)
		pipe.HSetNX(ctx, key, fieldSubscriptionPlan, defaults.Subscription.Plan)
		pipe.HSetNX(ctx, key, fieldSubscriptionStatus, defaults.Subscription.Status)
		pipe.HSetNX(ctx, key, fieldGenerationsThisMonth, defaults.Usage.GenerationsThisMonth)
		if len(brandValues) > 0 {
			pipe.HSet(ctx, brandKey(userID), brandValues...)
		}
		return nil
	})
	return err
}

func (r *RedisRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var userCmd, brandCmd *redis.MapStringStringCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		userCmd = pipe.HGetAll(ctx, userKey(userID))
		brandCmd = pipe.HGetAll(ctx, brandKey(userID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := userCmd.Val()
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	profile := &models.UserProfile{
		ID:    fields[fieldID],
		Email: fields[fieldEmail],
		Subscription: models.Subscription{
			Plan:   fields[fieldSubscriptionPlan],
			Status: fields[fieldSubscriptionStatus],
		},
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	if v, ok := fields[fieldGenerationsThisMonth]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("malformed %s for %s: %w", fieldGenerationsThisMonth, userID, err)
		}
		profile.Usage.GenerationsThisMonth = n
	}
	if profile.CreatedAt, err = parseStamp(fields[fieldCreatedAt]); err != nil {
		return nil, err
	}
	if profile.UpdatedAt, err = parseStamp(fields[fieldUpdatedAt]); err != nil {
		return nil, err
	}

	if fields[fieldHasBrandProfile] != "" {
		raw := brandCmd.Val()
		attrs := make(map[string]any, len(raw))
		for k, v := range raw {
			var decoded any
			if err := json.Unmarshal([]byte(v), &decoded); err != nil {
				return nil, fmt.Errorf("malformed brand attribute %q for %s: %w", k, userID, err)
			}
			attrs[k] = decoded
		}
		brand, err := models.BrandProfileFromMap(attrs)
		if err != nil {
			return nil, err
		}
		profile.BrandProfile = brand
	}

	return profile, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func parseStamp(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", v, err)
	}
	return t, nil
}
