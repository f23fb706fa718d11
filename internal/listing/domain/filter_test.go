package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleAds() []*Ad {
	return []*Ad{
		{ID: "1", Title: "Coffee", Description: "morning chat", Category: CategoryFriendship, Location: "Austin"},
		{ID: "2", Title: "Bike", Description: "red road bike", Category: CategoryItemsForSale, Location: "Dallas"},
		{ID: "3", Title: "Hiking buddy", Description: "weekend trails", Category: CategoryActivities, Location: "Austin"},
	}
}

func TestFilterAds_EmptyQueryIsIdentity(t *testing.T) {
	ads := sampleAds()
	assert.Equal(t, ads, FilterAds(ads, ""))
}

func TestFilterAds_CaseInsensitive(t *testing.T) {
	got := FilterAds([]*Ad{{ID: "1", Title: "Coffee"}}, "COFFEE")
	assert.Len(t, got, 1)
}

func TestFilterAds_MatchesEveryField(t *testing.T) {
	ads := sampleAds()

	assert.Equal(t, []string{"2"}, ids(FilterAds(ads, "road")))
	assert.Equal(t, []string{"2"}, ids(FilterAds(ads, "items for")))
	assert.Equal(t, []string{"1", "3"}, ids(FilterAds(ads, "austin")), "location is searched and order kept")
	assert.Empty(t, FilterAds(ads, "zebra"))
}

func ids(ads []*Ad) []string {
	out := make([]string, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ad.ID)
	}
	return out
}
