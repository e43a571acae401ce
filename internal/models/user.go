package models

import "time"

// UserProfile is the per-user document. ID is the identity provider's
// subject id and never changes.
type UserProfile struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	BrandProfile *BrandProfile `json:"brandProfile,omitempty"`
	Subscription Subscription  `json:"subscription"`
	Usage        Usage         `json:"usage"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Subscription struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

type Usage struct {
	GenerationsThisMonth int `json:"generationsThisMonth"`
}

// ProfileResponse is the envelope returned by get-profile.
type ProfileResponse struct {
	BrandProfile *BrandProfile `json:"brandProfile"`
	Subscription Subscription  `json:"subscription"`
	Usage        Usage         `json:"usage"`
}

func (u *UserProfile) ToResponse() ProfileResponse {
	return ProfileResponse{
		BrandProfile: u.BrandProfile,
		Subscription: u.Subscription,
		Usage:        u.Usage,
	}
}
