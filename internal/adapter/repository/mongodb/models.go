package mongodb

import (
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

// adDocument is an ad as stored in the ads collection. Owner is only filled
// by the $lookup stage of read pipelines.
type adDocument struct {
	ID          string            `bson:"_id"`
	OwnerID     string            `bson:"user_id"`
	Title       string            `bson:"title"`
	Description string            `bson:"description"`
	Price       *float64          `bson:"price"`
	Category    string            `bson:"category"`
	Location    string            `bson:"location"`
	Images      []string          `bson:"images"`
	Active      bool              `bson:"is_active"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
	Owner       []profileDocument `bson:"owner,omitempty"`
}

type profileDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	City      string    `bson:"city"`
	Bio       string    `bson:"bio"`
	AvatarURL string    `bson:"avatar_url"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type accountDocument struct {
	ID                      string     `bson:"_id"`
	Email                   string     `bson:"email"`
	PasswordHash            string     `bson:"password_hash"`
	EmailVerified           bool       `bson:"email_verified"`
	VerificationCode        string     `bson:"verification_code,omitempty"`
	VerificationCodeExpires *time.Time `bson:"verification_code_expires,omitempty"`
	CreatedAt               time.Time  `bson:"created_at"`
	UpdatedAt               time.Time  `bson:"updated_at"`
}

func toAdDocument(a *domain.Ad) *adDocument {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	return &adDocument{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Title:       a.Title,
		Description: a.Description,
		Price:       a.Price,
		Category:    string(a.Category),
		Location:    a.Location,
		Images:      images,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d *adDocument) toDomain() *domain.Ad {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	ad := &domain.Ad{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    domain.Category(d.Category),
		Location:    d.Location,
		Images:      images,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if len(d.Owner) > 0 {
		owner := d.Owner[0]
		ad.Owner = &domain.OwnerSummary{
			ID:          owner.ID,
			DisplayName: domain.DisplayNameFromEmail(owner.Email),
			City:        owner.City,
			AvatarURL:   owner.AvatarURL,
		}
	}
	return ad
}

func toDomainAds(docs []*adDocument) []*domain.Ad {
	ads := make([]*domain.Ad, 0, len(docs))
	for _, doc := range docs {
		ads = append(ads, doc.toDomain())
	}
	return ads
}

func (d *profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:        d.ID,
		Email:     d.Email,
		Phone:     d.Phone,
		City:      d.City,
		Bio:       d.Bio,
		AvatarURL: d.AvatarURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toAccountDocument(a *domain.Account) *accountDocument {
	return &accountDocument{
		ID:                      a.ID,
		Email:                   a.Email,
		PasswordHash:            a.PasswordHash,
		EmailVerified:           a.EmailVerified,
		VerificationCode:        a.VerificationCode,
		VerificationCodeExpires: a.VerificationCodeExpires,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
}

func (d *accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:                      d.ID,
		Email:                   d.Email,
		PasswordHash:            d.PasswordHash,
		EmailVerified:           d.EmailVerified,
		VerificationCode:        d.VerificationCode,
		VerificationCodeExpires: d.VerificationCodeExpires,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
	}
}
