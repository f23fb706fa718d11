package domain

import "context"

// AdRepository is the relational store contract for the ads table.
// Reads join the owner's profile into Ad.Owner.
type AdRepository interface {
	Insert(ctx context.Context, ad *Ad) error
	ListActive(ctx context.Context) ([]*Ad, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Ad, error)
	FindByID(ctx context.Context, id string) (*Ad, error)
	// UpdateImages replaces the images of an ad owned by ownerID. It returns
	// ErrNotFound when no ad with that id and owner exists.
	UpdateImages(ctx context.Context, id, ownerID string, images []string) error
	// Update writes the editable fields and the active flag of an ad owned by ad.OwnerID.
	Update(ctx context.Context, ad *Ad) error
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	MarkVerified(ctx context.Context, id string) error
}

// EventPublisher fans domain events out to other services.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Notifier sends user-facing emails.
type Notifier interface {
	SendVerificationEmail(toEmail, code string) error
	SendListingCreatedEmail(toEmail, listingTitle string) error
}

const (
	SubjectAdCreated         = "ad.created"
	SubjectAdUpdated         = "ad.updated"
	SubjectAccountRegistered = "account.registered"
)
