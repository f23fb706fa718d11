package domain

import (
	"strings"
	"time"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxImagesPerAd       = 5
	MinPasswordLength    = 6
)

// Identity is an authenticated user together with its profile projection.
// HasProfile reports whether a profiles row exists for the user.
type Identity struct {
	ID            string
	Email         string
	EmailVerified bool
	Phone         string
	City          string
	Bio           string
	AvatarURL     string
	HasProfile    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayName is the email-derived name shown next to ads.
func (i Identity) DisplayName() string {
	return DisplayNameFromEmail(i.Email)
}

// WithProfile merges a profiles row into the identity.
func (i Identity) WithProfile(p *Profile) Identity {
	if p == nil {
		i.HasProfile = false
		return i
	}
	i.Phone = p.Phone
	i.City = p.City
	i.Bio = p.Bio
	i.AvatarURL = p.AvatarURL
	i.HasProfile = true
	return i
}

// Account is the auth-side record behind an Identity.
type Account struct {
	ID                      string
	Email                   string
	PasswordHash            string
	EmailVerified           bool
	VerificationCode        string
	VerificationCodeExpires *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (a *Account) Identity() Identity {
	return Identity{
		ID:            a.ID,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AuthSession is what a successful sign-in hands back.
type AuthSession struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

type Profile struct {
	ID        string // same as the owning identity id
	Email     string
	Phone     string
	City      string
	Bio       string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileFields is the editable part of a profile.
type ProfileFields struct {
	Phone     string
	City      string
	Bio       string
	AvatarURL string
}

// OwnerSummary is the minimal owner projection joined onto an ad for display.
type OwnerSummary struct {
	ID          string
	DisplayName string
	City        string
	AvatarURL   string
}

type Ad struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Price       *float64 // nil when the poster left it blank
	Category    Category
	Location    string
	Images      []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner *OwnerSummary
}

// VisibleTo reports whether viewerID may see the ad on its detail page.
// Active ads are public, inactive ones are visible to their owner only.
func (a *Ad) VisibleTo(viewerID string) bool {
	if a.Active {
		return true
	}
	return viewerID != "" && viewerID == a.OwnerID
}

// AdFields is the user-entered draft of an ad. Price is kept as the raw
// decimal text typed by the user.
type AdFields struct {
	Title       string
	Description string
	Category    string
	Location    string
	Price       string
}

// Message is kept for schema completeness; no behavior is attached to it.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	AdID       string
	Content    string
	Read       bool
	CreatedAt  time.Time
}

// Subscription mirrors the subscriptions table; no behavior is attached to it.
type Subscription struct {
	ID            string
	UserID        string
	PlanType      string
	Active        bool
	ExpiresAt     *time.Time
	TransactionID string
	CreatedAt     time.Time
}

// DisplayNameFromEmail returns the local part of an email address.
func DisplayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}
