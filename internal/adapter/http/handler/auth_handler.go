package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth    AuthService
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewAuthHandler(auth AuthService, m *metrics.MetricsManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m, logger: log.Named("AuthHandler")}
}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := domain.ValidateSignUp(req.Email, req.Password, req.ConfirmPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	identity, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("SignUp failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toUserResponse(identity))
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordSignIn(signInOutcome(err))
		writeDomainError(w, err)
		return
	}
	h.metrics.RecordSignIn("success")
	middleware.WriteJSON(w, http.StatusOK, signInResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      toUserResponse(sess.Identity),
	})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), middleware.TokenFromContext(r.Context())); err != nil {
		h.logger.Warn("SignOut: revoke failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	middleware.WriteJSON(w, http.StatusOK, toUserResponse(identity))
}

func signInOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return "unconfirmed"
	default:
		return "error"
	}
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
