package domain

import (
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AdDraft is a validated, normalized AdFields ready for insertion.
type AdDraft struct {
	Title       string
	Description string
	Category    Category
	Location    string
	Price       *float64
}

// ValidateAdFields checks the required fields and the length, enum and price
// rules. It never touches the network.
func ValidateAdFields(f AdFields) (AdDraft, error) {
	draft := AdDraft{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Location:    strings.TrimSpace(f.Location),
	}

	switch {
	case draft.Title == "":
		return AdDraft{}, NewValidationError("title", "is required")
	case draft.Description == "":
		return AdDraft{}, NewValidationError("description", "is required")
	case strings.TrimSpace(f.Category) == "":
		return AdDraft{}, NewValidationError("category", "is required")
	case draft.Location == "":
		return AdDraft{}, NewValidationError("location", "is required")
	}

	if n := utf8.RuneCountInString(draft.Title); n > MaxTitleLength {
		return AdDraft{}, NewValidationError("title", "must be at most %d characters, got %d", MaxTitleLength, n)
	}
	if n := utf8.RuneCountInString(draft.Description); n > MaxDescriptionLength {
		return AdDraft{}, NewValidationError("description", "must be at most %d characters, got %d", MaxDescriptionLength, n)
	}

	category, ok := ParseCategory(f.Category)
	if !ok {
		return AdDraft{}, NewValidationError("category", "unknown category %q", f.Category)
	}
	draft.Category = category

	price, err := ParsePrice(f.Price)
	if err != nil {
		return AdDraft{}, err
	}
	draft.Price = price

	return draft, nil
}

// Prices must fit the NUMERIC(12,2) column: at most ten integer digits and
// two fractional digits.
const (
	MaxPriceIntegerDigits  = 10
	MaxPriceFractionDigits = 2
)

var priceSyntax = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]*))?$`)

// ParsePrice turns the decimal text of the price input into a value.
// Blank text means "no price" and yields nil. Only plain decimal notation is
// accepted, so exponents and hex floats are rejected.
func ParsePrice(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.HasPrefix(text, "-") {
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			return nil, NewValidationError("price", "must not be negative")
		}
	}
	m := priceSyntax.FindStringSubmatch(text)
	if m == nil {
		return nil, NewValidationError("price", "%q is not a valid number", text)
	}
	if len(strings.TrimLeft(m[1], "0")) > MaxPriceIntegerDigits {
		return nil, NewValidationError("price", "must be at most %s", strings.Repeat("9", MaxPriceIntegerDigits)+".99")
	}
	if len(m[2]) > MaxPriceFractionDigits {
		return nil, NewValidationError("price", "must have at most %d decimal places", MaxPriceFractionDigits)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, NewValidationError("price", "%q is not a valid number", text)
	}
	return &v, nil
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("email", "%q is not a valid address", email)
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password", "must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateSignUp runs the form-level checks done before a sign-up request,
// including the confirm-password match.
func ValidateSignUp(email, password, confirm string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if password != confirm {
		return NewValidationError("confirm_password", "passwords do not match")
	}
	return ValidatePassword(password)
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const (
	MaxBioLength   = 500
	MaxCityLength  = 100
	MaxPhoneLength = 32
)

// ValidateProfileFields checks the profile completion form. City is the only
// required field since it is shown next to every ad.
func ValidateProfileFields(f ProfileFields) (ProfileFields, error) {
	f = ProfileFields{
		Phone:     strings.TrimSpace(f.Phone),
		City:      strings.TrimSpace(f.City),
		Bio:       strings.TrimSpace(f.Bio),
		AvatarURL: strings.TrimSpace(f.AvatarURL),
	}
	if f.City == "" {
		return ProfileFields{}, NewValidationError("city", "is required")
	}
	if n := utf8.RuneCountInString(f.City); n > MaxCityLength {
		return ProfileFields{}, NewValidationError("city", "must be at most %d characters, got %d", MaxCityLength, n)
	}
	if n := utf8.RuneCountInString(f.Phone); n > MaxPhoneLength {
		return ProfileFields{}, NewValidationError("phone", "must be at most %d characters, got %d", MaxPhoneLength, n)
	}
	if n := utf8.RuneCountInString(f.Bio); n > MaxBioLength {
		return ProfileFields{}, NewValidationError("bio", "must be at most %d characters, got %d", MaxBioLength, n)
	}
	if f.AvatarURL != "" {
		u, err := url.Parse(f.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ProfileFields{}, NewValidationError("avatar_url", "%q is not an http(s) URL", f.AvatarURL)
		}
	}
	return f, nil
}
