package handler

import (
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	DisplayName   string `json:"display_name"`
	Phone         string `json:"phone,omitempty"`
	City          string `json:"city,omitempty"`
	Bio           string `json:"bio,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	HasProfile    bool   `json:"has_profile"`
}

func toUserResponse(i domain.Identity) userResponse {
	return userResponse{
		ID:            i.ID,
		Email:         i.Email,
		EmailVerified: i.EmailVerified,
		DisplayName:   i.DisplayName(),
		Phone:         i.Phone,
		City:          i.City,
		Bio:           i.Bio,
		AvatarURL:     i.AvatarURL,
		HasProfile:    i.HasProfile,
	}
}

type ownerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type adResponse struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       *float64       `json:"price"`
	Category    string         `json:"category"`
	Location    string         `json:"location"`
	Images      []string       `json:"images"`
	Active      bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Owner       *ownerResponse `json:"owner,omitempty"`
}

func toAdResponse(ad *domain.Ad) adResponse {
	images := ad.Images
	if images == nil {
		images = []string{}
	}
	resp := adResponse{
		ID:          ad.ID,
		OwnerID:     ad.OwnerID,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price,
		Category:    string(ad.Category),
		Location:    ad.Location,
		Images:      images,
		Active:      ad.Active,
		CreatedAt:   ad.CreatedAt,
		UpdatedAt:   ad.UpdatedAt,
	}
	if ad.Owner != nil {
		resp.Owner = &ownerResponse{
			ID:          ad.Owner.ID,
			DisplayName: ad.Owner.DisplayName,
			City:        ad.Owner.City,
			AvatarURL:   ad.Owner.AvatarURL,
		}
	}
	return resp
}

func toAdResponses(ads []*domain.Ad) []adResponse {
	out := make([]adResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, toAdResponse(ad))
	}
	return out
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Phone:     p.Phone,
		City:      p.City,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		UpdatedAt: p.UpdatedAt,
	}
}
