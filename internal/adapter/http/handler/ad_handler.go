package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxCreateBody fits a full image quota plus the text fields.
const maxCreateBody = domain.MaxImagesPerAd*media.MaxFileSize + 1<<20

type AdHandler struct {
	ads    AdService
	gate   Gate
	logger *logger.Logger
}

func NewAdHandler(ads AdService, gate Gate, log *logger.Logger) *AdHandler {
	return &AdHandler{ads: ads, gate: gate, logger: log.Named("AdHandler")}
}

type adFieldsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Price       string `json:"price"`
}

type patchAdRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Price       *string `json:"price"`
}

type imagesRequest struct {
	Images []string `json:"images"`
}

type publishResponse struct {
	ID           string   `json:"id"`
	State        string   `json:"state"`
	Images       []string `json:"images"`
	FailedImages int      `json:"failed_images"`
}

// List serves the public feed, filtered by ?q= when present.
func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toAdResponses(ads))
}

func (h *AdHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	ads, err := h.ads.ListMine(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toAdResponses(ads))
}

func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	ad, err := h.ads.GetByID(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toAdResponse(ad))
}

// Create accepts multipart/form-data with the ad fields and up to five
// "images" parts, or a JSON body without images.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	if err := h.gate.Ensure(r.Context(), identity); err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		fields domain.AdFields
		files  []media.File
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		var status int
		var err error
		fields, files, status, err = readMultipartAd(w, r)
		if err != nil {
			middleware.WriteError(w, status, err.Error())
			return
		}
	} else {
		var req adFieldsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		fields = domain.AdFields(req)
	}

	res, err := h.ads.Publish(r.Context(), identity, fields, files)
	if err != nil {
		status := statusFor(err)
		body := middleware.ErrorBody{Error: err.Error()}
		if res != nil {
			body.AdID = res.AdID
		}
		if body.AdID != "" {
			h.logger.Warn("Create: ad inserted but publish did not finish", zap.String("ad_id", body.AdID), zap.Error(err))
		}
		if status == http.StatusInternalServerError {
			body.Error = "internal server error"
		}
		middleware.WriteJSON(w, status, body)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, publishResponse{
		ID:           res.AdID,
		State:        res.State.String(),
		Images:       res.Images,
		FailedImages: res.FailedImages,
	})
}

// Update applies the fields present in the body on top of the stored ad.
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req patchAdRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	current, err := h.ads.GetByID(r.Context(), identity.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	fields := fieldsOf(current)
	overlay(&fields.Title, req.Title)
	overlay(&fields.Description, req.Description)
	overlay(&fields.Category, req.Category)
	overlay(&fields.Location, req.Location)
	overlay(&fields.Price, req.Price)

	ad, err := h.ads.Update(r.Context(), identity, id, fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toAdResponse(ad))
}

func (h *AdHandler) AttachImages(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req imagesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.ads.AttachImages(r.Context(), identity, chi.URLParam(r, "id"), req.Images); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AdHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AdHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	if err := h.ads.SetActive(r.Context(), identity, chi.URLParam(r, "id"), active); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readMultipartAd(w http.ResponseWriter, r *http.Request) (domain.AdFields, []media.File, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.AdFields{}, nil, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return domain.AdFields{}, nil, http.StatusBadRequest, errors.New("invalid multipart form")
	}

	fields := domain.AdFields{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		Price:       r.FormValue("price"),
	}

	var files []media.File
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return fields, nil, http.StatusBadRequest, errors.New("unreadable image part")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fields, nil, http.StatusBadRequest, errors.New("unreadable image part")
		}
		files = append(files, media.NewFile(fh.Filename, fh.Header.Get("Content-Type"), data))
	}
	return fields, files, 0, nil
}

func fieldsOf(ad *domain.Ad) domain.AdFields {
	f := domain.AdFields{
		Title:       ad.Title,
		Description: ad.Description,
		Category:    string(ad.Category),
		Location:    ad.Location,
	}
	if ad.Price != nil {
		f.Price = strconv.FormatFloat(*ad.Price, 'f', -1, 64)
	}
	return f
}

func overlay(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
