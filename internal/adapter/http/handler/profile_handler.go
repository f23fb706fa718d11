package handler

import (
	"net/http"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// Complete creates or updates the caller's profile, which unlocks ad creation.
func (h *ProfileHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.profiles.Complete(r.Context(), identity, domain.ProfileFields{
		Phone:     req.Phone,
		City:      req.City,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}
