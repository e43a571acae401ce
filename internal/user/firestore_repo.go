package user

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/blagoySimandov/astra/go/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type firestoreSubscription struct {
	Plan   string `firestore:"plan"`
	Status string `firestore:"status"`
}

type firestoreUsage struct {
	GenerationsThisMonth int `firestore:"generationsThisMonth"`
}

type firestoreUser struct {
	ID           string                 `firestore:"id"`
	Email        string                 `firestore:"email"`
	BrandProfile map[string]any         `firestore:"brandProfile"`
	Subscription *firestoreSubscription `firestore:"subscription"`
	Usage        *firestoreUsage        `firestore:"usage"`
	// Older documents carry ISO-8601 strings instead of timestamps.
	CreatedAt any `firestore:"createdAt"`
	UpdatedAt any `firestore:"updatedAt"`
}

// FirestoreRepository keeps one document per user in the users collection.
// Writes that depend on what is already stored (createdAt, first-save
// defaults) run inside a transaction so the read and the merge are atomic.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(ctx context.Context, projectID, credentialsJSON string) (*FirestoreRepository, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreRepository{client: client}, nil
}

func (r *FirestoreRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *FirestoreRepository) UpsertUser(ctx context.Context, userID, email string, now time.Time) error {
	ref := r.doc(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := readInTx(tx, ref)
		if err != nil {
			return err
		}
		data, paths := upsertUserWrite(existing, userID, email, now)
		return tx.Set(ref, data, firestore.Merge(paths...))
	})
}

func (r *FirestoreRepository) MergeBrandProfile(ctx context.Context, userID, email string, fields map[string]any, defaults ProfileDefaults, now time.Time) error {
	ref := r.doc(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := readInTx(tx, ref)
		if err != nil {
			return err
		}
		data, paths := mergeBrandProfileWrite(existing, userID, email, fields, defaults, now)
		return tx.Set(ref, data, firestore.Merge(paths...))
	})
}

func (r *FirestoreRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	snap, err := r.doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored firestoreUser
	if err := snap.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode user document %s: %w", userID, err)
	}
	return stored.toUserProfile(userID)
}

func (r *FirestoreRepository) Close() error {
	return r.client.Close()
}

// readInTx returns the stored fields, or nil when the document is absent.
func readInTx(tx *firestore.Transaction, ref *firestore.DocumentRef) (map[string]any, error) {
	snap, err := tx.Get(ref)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func upsertUserWrite(existing map[string]any, userID, email string, now time.Time) (map[string]any, []firestore.FieldPath) {
	data := map[string]any{
		"id":        userID,
		"email":     email,
		"updatedAt": now,
	}
	paths := []firestore.FieldPath{{"id"}, {"email"}, {"updatedAt"}}
	if _, ok := existing["createdAt"]; !ok {
		data["createdAt"] = now
		paths = append(paths, firestore.FieldPath{"createdAt"})
	}
	return data, paths
}

// mergeBrandProfileWrite names every brand attribute as its own field path
// so each one replaces only itself; attributes not named are left alone.
func mergeBrandProfileWrite(existing map[string]any, userID, email string, fields map[string]any, defaults ProfileDefaults, now time.Time) (map[string]any, []firestore.FieldPath) {
	data, paths := upsertUserWrite(existing, userID, email, now)

	if _, ok := existing["subscription"]; !ok {
		data["subscription"] = map[string]any{
			"plan":   defaults.Subscription.Plan,
			"status": defaults.Subscription.Status,
		}
		paths = append(paths, firestore.FieldPath{"subscription"})
	}
	if _, ok := existing["usage"]; !ok {
		data["usage"] = map[string]any{
			"generationsThisMonth": defaults.Usage.GenerationsThisMonth,
		}
		paths = append(paths, firestore.FieldPath{"usage"})
	}

	brand := make(map[string]any, len(fields))
	for k, v := range fields {
		brand[k] = v
		paths = append(paths, firestore.FieldPath{"brandProfile", k})
	}
	_, hasBrand := existing["brandProfile"]
	if len(fields) > 0 || !hasBrand {
		data["brandProfile"] = brand
	}
	if len(fields) == 0 && !hasBrand {
		paths = append(paths, firestore.FieldPath{"brandProfile"})
	}

	return data, paths
}

func (u *firestoreUser) toUserProfile(userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: firestoreStamp(u.CreatedAt),
		UpdatedAt: firestoreStamp(u.UpdatedAt),
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	if u.Subscription != nil {
		profile.Subscription = models.Subscription{Plan: u.Subscription.Plan, Status: u.Subscription.Status}
	}
	if u.Usage != nil {
		profile.Usage = models.Usage{GenerationsThisMonth: u.Usage.GenerationsThisMonth}
	}
	if u.BrandProfile != nil {
		brand, err := models.BrandProfileFromMap(u.BrandProfile)
		if err != nil {
			return nil, err
		}
		profile.BrandProfile = brand
	}
	return profile, nil
}

// firestoreStamp reads a timestamp field written either natively or as an
// RFC 3339 string. Anything else reads as the zero time.
func firestoreStamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}
