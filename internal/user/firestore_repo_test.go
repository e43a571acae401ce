package user

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/blagoySimandov/astra/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = ProfileDefaults{
	Subscription: models.Subscription{Plan: "free", Status: "active"},
}

func TestUpsertUserWriteNewDocument(t *testing.T) {
	now := time.Now()

	data, paths := upsertUserWrite(nil, "uid-1", "owner@acme.test", now)

	assert.Equal(t, now, data["createdAt"])
	assert.ElementsMatch(t, []firestore.FieldPath{{"id"}, {"email"}, {"updatedAt"}, {"createdAt"}}, paths)
}

func TestUpsertUserWriteKeepsCreatedAt(t *testing.T) {
	existing := map[string]any{"createdAt": time.Now().Add(-time.Hour), "brandProfile": map[string]any{"name": "Acme"}}

	data, paths := upsertUserWrite(existing, "uid-1", "new@acme.test", time.Now())

	assert.NotContains(t, data, "createdAt")
	assert.NotContains(t, data, "brandProfile")
	assert.ElementsMatch(t, []firestore.FieldPath{{"id"}, {"email"}, {"updatedAt"}}, paths)
}

func TestMergeBrandProfileWriteFirstSave(t *testing.T) {
	data, paths := mergeBrandProfileWrite(nil, "uid-1", "owner@acme.test",
		map[string]any{"name": "Acme", "industry": "Bakery"}, testDefaults, time.Now())

	assert.Equal(t, map[string]any{"plan": "free", "status": "active"}, data["subscription"])
	assert.Equal(t, map[string]any{"generationsThisMonth": 0}, data["usage"])
	assert.Equal(t, map[string]any{"name": "Acme", "industry": "Bakery"}, data["brandProfile"])
	assert.Contains(t, paths, firestore.FieldPath{"brandProfile", "name"})
	assert.Contains(t, paths, firestore.FieldPath{"brandProfile", "industry"})
	assert.NotContains(t, paths, firestore.FieldPath{"brandProfile"})
}

func TestMergeBrandProfileWriteLaterSave(t *testing.T) {
	existing := map[string]any{
		"createdAt":    time.Now().Add(-time.Hour),
		"subscription": map[string]any{"plan": "pro", "status": "active"},
		"usage":        map[string]any{"generationsThisMonth": int64(4)},
		"brandProfile": map[string]any{"name": "Acme"},
	}

	data, paths := mergeBrandProfileWrite(existing, "uid-1", "owner@acme.test",
		map[string]any{"tagline": "X"}, testDefaults, time.Now())

	assert.NotContains(t, data, "subscription")
	assert.NotContains(t, data, "usage")
	assert.NotContains(t, data, "createdAt")
	assert.Equal(t, map[string]any{"tagline": "X"}, data["brandProfile"])
	assert.Contains(t, paths, firestore.FieldPath{"brandProfile", "tagline"})
	assert.NotContains(t, paths, firestore.FieldPath{"brandProfile", "name"})
}

func TestMergeBrandProfileWriteEmptyProfile(t *testing.T) {
	data, paths := mergeBrandProfileWrite(nil, "uid-1", "owner@acme.test", map[string]any{}, testDefaults, time.Now())
	assert.Equal(t, map[string]any{}, data["brandProfile"])
	assert.Contains(t, paths, firestore.FieldPath{"brandProfile"})

	existing := map[string]any{"brandProfile": map[string]any{"name": "Acme"}}
	data, paths = mergeBrandProfileWrite(existing, "uid-1", "owner@acme.test", map[string]any{}, testDefaults, time.Now())
	assert.NotContains(t, data, "brandProfile")
	assert.NotContains(t, paths, firestore.FieldPath{"brandProfile"})
}

func TestFirestoreUserToUserProfile(t *testing.T) {
	stored := &firestoreUser{
		Email:        "owner@acme.test",
		BrandProfile: map[string]any{"name": "Acme", "founded": int64(1999)},
		Subscription: &firestoreSubscription{Plan: "free", Status: "active"},
		Usage:        &firestoreUsage{GenerationsThisMonth: 2},
	}

	got, err := stored.toUserProfile("uid-1")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", got.ID)
	assert.Equal(t, "Acme", got.BrandProfile.Name)
	assert.Equal(t, float64(1999), got.BrandProfile.Extra["founded"])
	assert.Equal(t, 2, got.Usage.GenerationsThisMonth)
}

func TestFirestoreUserWithoutBrandProfile(t *testing.T) {
	got, err := (&firestoreUser{ID: "uid-1"}).toUserProfile("uid-1")
	require.NoError(t, err)
	assert.Nil(t, got.BrandProfile)
}

func TestFirestoreUserLegacyStringTimestamps(t *testing.T) {
	stored := &firestoreUser{
		BrandProfile: map[string]any{"name": "Acme"},
		CreatedAt:    "2024-05-01T10:20:30.123Z",
		UpdatedAt:    "garbage",
	}

	got, err := stored.toUserProfile("uid-1")
	require.NoError(t, err)

	assert.True(t, time.Date(2024, 5, 1, 10, 20, 30, 123000000, time.UTC).Equal(got.CreatedAt))
	assert.True(t, got.UpdatedAt.IsZero())
}

func TestFirestoreStampNativeTimestamp(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, now, firestoreStamp(now))
	assert.True(t, firestoreStamp(nil).IsZero())
	assert.True(t, firestoreStamp(int64(5)).IsZero())
}
