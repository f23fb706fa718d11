package domain

import "strings"

type Category string

const (
	CategoryDating       Category = "Dating"
	CategoryFriendship   Category = "Friendship"
	CategoryActivities   Category = "Activities"
	CategoryEvents       Category = "Events"
	CategoryServices     Category = "Services"
	CategoryItemsForSale Category = "Items for Sale"
	CategoryHousing      Category = "Housing"
	CategoryJobs         Category = "Jobs"
	CategoryOther        Category = "Other"
)

var categories = []Category{
	CategoryDating,
	CategoryFriendship,
	CategoryActivities,
	CategoryEvents,
	CategoryServices,
	CategoryItemsForSale,
	CategoryHousing,
	CategoryJobs,
	CategoryOther,
}

// Categories returns the fixed category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the enum ignoring case and surrounding spaces.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range categories {
		if strings.EqualFold(string(known), s) {
			return known, true
		}
	}
	return "", false
}
