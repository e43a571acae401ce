package gcs

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const (
	logoPrefix    = "logos"
	uploadMethod  = "PUT"
	signedURLTTL  = 5 * time.Minute
	publicURLHost = "https://storage.googleapis.com"
)

var AllowedLogoContentTypes = []string{
	"image/png",
	"image/jpeg",
	"image/svg+xml",
	"image/webp",
}

// fixed extensions; mime.ExtensionsByType order differs between platforms
var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

var (
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrInvalidOwner          = errors.New("user id cannot be used as an object path segment")
)

type bucketSigner interface {
	SignedURL(object string, opts *storage.SignedURLOptions) (string, error)
}

type LogoUpload struct {
	URL        string `json:"url"`
	ObjectName string `json:"objectName"`
	PublicURL  string `json:"publicUrl"`
}

// LogoUploader issues signed PUT URLs for brand logo uploads.
type LogoUploader struct {
	client     *storage.Client
	bucket     bucketSigner
	bucketName string
	now        func() time.Time
	newID      func() string
}

func NewLogoUploader(ctx context.Context, bucketName, credentialsJSON string) (*LogoUploader, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	u := newLogoUploader(client.Bucket(bucketName), bucketName)
	u.client = client
	return u, nil
}

func newLogoUploader(bucket bucketSigner, bucketName string) *LogoUploader {
	return &LogoUploader{
		bucket:     bucket,
		bucketName: bucketName,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

func (u *LogoUploader) Close() error {
	if u.client == nil {
		return nil
	}
	return u.client.Close()
}

// SignUpload returns a URL the owner can PUT the logo bytes to. The object
// lives under logos/<userID>/ so uploads never collide across users.
func (u *LogoUploader) SignUpload(userID, contentType string) (*LogoUpload, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !slices.Contains(AllowedLogoContentTypes, mediaType) {
		return nil, fmt.Errorf("%w: %q", ErrContentTypeNotAllowed, contentType)
	}

	if !validOwnerSegment(userID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOwner, userID)
	}

	objectName := logoPrefix + "/" + userID + "/" + u.newID() + logoExtensions[mediaType]
	signed, err := u.bucket.SignedURL(objectName, &storage.SignedURLOptions{
		Method:      uploadMethod,
		ContentType: mediaType,
		Expires:     u.now().Add(signedURLTTL),
		Scheme:      storage.SigningSchemeV4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return &LogoUpload{
		URL:        signed,
		ObjectName: objectName,
		PublicURL:  publicURL(u.bucketName, objectName),
	}, nil
}

// validOwnerSegment keeps every object under logos/<uid>/.
func validOwnerSegment(userID string) bool {
	if userID == "" || userID == "." || userID == ".." {
		return false
	}
	return !strings.ContainsAny(userID, "/\\")
}

func publicURL(bucketName, objectName string) string {
	return publicURLHost + "/" + url.PathEscape(bucketName) + "/" + (&url.URL{Path: objectName}).EscapedPath()
}
