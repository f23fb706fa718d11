package domain

import "strings"

// FilterAds keeps the ads whose title, description, category or location
// contains query, ignoring case. Order is preserved and an empty query
// returns ads unchanged.
func FilterAds(ads []*Ad, query string) []*Ad {
	if query == "" {
		return ads
	}
	needle := strings.ToLower(query)

	out := make([]*Ad, 0, len(ads))
	for _, ad := range ads {
		if ad == nil {
			continue
		}
		if matches(ad, needle) {
			out = append(out, ad)
		}
	}
	return out
}

func matches(ad *Ad, needle string) bool {
	for _, field := range []string{ad.Title, ad.Description, string(ad.Category), ad.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
