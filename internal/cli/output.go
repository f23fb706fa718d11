package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/listing/usecase"
)

type identityView struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	City          string `json:"city,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Bio           string `json:"bio,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	HasProfile    bool   `json:"has_profile"`
}

func toIdentityView(i domain.Identity) identityView {
	return identityView{
		ID:            i.ID,
		Email:         i.Email,
		EmailVerified: i.EmailVerified,
		City:          i.City,
		Phone:         i.Phone,
		Bio:           i.Bio,
		AvatarURL:     i.AvatarURL,
		HasProfile:    i.HasProfile,
	}
}

type adView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	IsActive    bool      `json:"is_active"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAdView(ad *domain.Ad) adView {
	v := adView{
		ID:          ad.ID,
		UserID:      ad.OwnerID,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price,
		Category:    string(ad.Category),
		Location:    ad.Location,
		Images:      ad.Images,
		IsActive:    ad.Active,
		CreatedAt:   ad.CreatedAt,
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	if ad.Owner != nil {
		v.Owner = ad.Owner.DisplayName
	}
	return v
}

type publishView struct {
	AdID         string   `json:"ad_id"`
	State        string   `json:"state"`
	Images       []string `json:"images"`
	FailedImages int      `json:"failed_images"`
}

func toPublishView(res *usecase.PublishResult) publishView {
	v := publishView{
		AdID:         res.AdID,
		State:        res.State.String(),
		Images:       res.Images,
		FailedImages: res.FailedImages,
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	return v
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(b))
	return err
}

func (r *Runner) printKV(rows [][2]string) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func (r *Runner) printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		r.printf("no results\n")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (r *Runner) printIdentity(i domain.Identity) {
	r.printKV([][2]string{
		{"id", i.ID},
		{"email", i.Email},
		{"verified", strconv.FormatBool(i.EmailVerified)},
		{"city", orDash(i.City)},
		{"phone", orDash(i.Phone)},
		{"profile", strconv.FormatBool(i.HasProfile)},
	})
}

func (r *Runner) printAds(e *env, ads []*domain.Ad) error {
	if e.json {
		views := make([]adView, 0, len(ads))
		for _, ad := range ads {
			views = append(views, toAdView(ad))
		}
		return r.printJSON(views)
	}
	rows := make([][]string, 0, len(ads))
	for _, ad := range ads {
		rows = append(rows, []string{
			ad.ID,
			ad.Title,
			formatPrice(ad.Price),
			string(ad.Category),
			orDash(ad.Location),
			strconv.Itoa(len(ad.Images)),
			strconv.FormatBool(ad.Active),
		})
	}
	r.printTable([]string{"ID", "TITLE", "PRICE", "CATEGORY", "LOCATION", "IMAGES", "ACTIVE"}, rows)
	return nil
}

func (r *Runner) printAd(ad *domain.Ad) {
	owner := "-"
	if ad.Owner != nil {
		owner = ad.Owner.DisplayName
	}
	r.printKV([][2]string{
		{"id", ad.ID},
		{"title", ad.Title},
		{"price", formatPrice(ad.Price)},
		{"category", string(ad.Category)},
		{"location", orDash(ad.Location)},
		{"owner", owner},
		{"active", strconv.FormatBool(ad.Active)},
		{"posted", formatTime(ad.CreatedAt)},
	})
	r.printf("\n%s\n", ad.Description)
	for _, u := range ad.Images {
		r.printf("image: %s\n", u)
	}
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
