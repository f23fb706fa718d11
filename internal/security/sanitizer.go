// Package security strips markup from user-entered text before it is stored.
package security

import (
	"html"
	"strings"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer removes every HTML element from plain-text fields such as ad
// titles and profile bios. It is safe for concurrent use.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 8

// Sanitize returns text without markup. bluemonday escapes the text it keeps
// and the entities are decoded again to store what the user typed. The two
// steps repeat until a pass changes nothing, so encoded markup cannot come
// back to life after decoding. Input that is still changing after maxPasses
// is returned in bluemonday's escaped form.
func (s *TextSanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	cur := text
	for i := 0; i < maxPasses; i++ {
		cleaned := s.policy.Sanitize(cur)
		next := html.UnescapeString(cleaned)
		if next == cur {
			return strings.TrimSpace(next)
		}
		cur = next
	}
	return strings.TrimSpace(s.policy.Sanitize(cur))
}

// SanitizeAdFields cleans the free-text parts of an ad draft. Category and
// price are parsed strictly later and are left alone.
func (s *TextSanitizer) SanitizeAdFields(f domain.AdFields) domain.AdFields {
	f.Title = s.Sanitize(f.Title)
	f.Description = s.Sanitize(f.Description)
	f.Location = s.Sanitize(f.Location)
	return f
}

func (s *TextSanitizer) SanitizeProfileFields(f domain.ProfileFields) domain.ProfileFields {
	f.Phone = s.Sanitize(f.Phone)
	f.City = s.Sanitize(f.City)
	f.Bio = s.Sanitize(f.Bio)
	f.AvatarURL = strings.TrimSpace(f.AvatarURL)
	return f
}
