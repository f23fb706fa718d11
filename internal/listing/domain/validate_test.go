package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() AdFields {
	return AdFields{
		Title:       "Coffee chat",
		Description: "Let's meet",
		Category:    "Friendship",
		Location:    "Austin, TX",
	}
}

func TestValidateAdFields_Valid(t *testing.T) {
	draft, err := ValidateAdFields(validFields())
	require.NoError(t, err)

	assert.Equal(t, "Coffee chat", draft.Title)
	assert.Equal(t, CategoryFriendship, draft.Category)
	assert.Nil(t, draft.Price, "blank price is stored as nil")
}

func TestValidateAdFields_RequiredFields(t *testing.T) {
	cases := map[string]func(*AdFields){
		"title":       func(f *AdFields) { f.Title = "  " },
		"description": func(f *AdFields) { f.Description = "" },
		"category":    func(f *AdFields) { f.Category = "" },
		"location":    func(f *AdFields) { f.Location = "\t" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			f := validFields()
			mutate(&f)

			_, err := ValidateAdFields(f)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestValidateAdFields_Limits(t *testing.T) {
	f := validFields()
	f.Title = strings.Repeat("é", MaxTitleLength)
	_, err := ValidateAdFields(f)
	assert.NoError(t, err, "limit counts characters, not bytes")

	f.Title = strings.Repeat("a", MaxTitleLength+1)
	_, err = ValidateAdFields(f)
	assert.ErrorIs(t, err, ErrValidation)

	f = validFields()
	f.Description = strings.Repeat("a", MaxDescriptionLength+1)
	_, err = ValidateAdFields(f)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateAdFields_Category(t *testing.T) {
	f := validFields()
	f.Category = "items for sale"
	draft, err := ValidateAdFields(f)
	require.NoError(t, err)
	assert.Equal(t, CategoryItemsForSale, draft.Category)

	f.Category = "Cars"
	_, err = ValidateAdFields(f)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParsePrice(" 12.50 ")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 12.5, *p)

	p, err = ParsePrice("0")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, *p)

	p, err = ParsePrice("9999999999.99")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 9999999999.99, *p)

	p, err = ParsePrice("007.5")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 7.5, *p)

	for _, bad := range []string{
		"-1", "abc", "NaN", "Inf",
		"1e20", "1E2", "0x1p4", "+5", "1_000", ".5",
		"12.345", "10000000000", "99999999999.5",
	} {
		_, err := ParsePrice(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestValidateAdFields_PriceOutOfRange(t *testing.T) {
	f := validFields()
	f.Price = "1e20"

	_, err := ValidateAdFields(f)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr.Field)
}

func TestValidateSignUp(t *testing.T) {
	assert.NoError(t, ValidateSignUp("ann@example.com", "secret1", "secret1"))
	assert.ErrorIs(t, ValidateSignUp("ann@example.com", "secret1", "secret2"), ErrValidation)
	assert.ErrorIs(t, ValidateSignUp("ann@example.com", "12345", "12345"), ErrValidation)
	assert.ErrorIs(t, ValidateSignUp("not-an-email", "secret1", "secret1"), ErrValidation)

	// length is counted in characters: six bytes, three characters
	assert.ErrorIs(t, ValidateSignUp("ann@example.com", "ééé", "ééé"), ErrValidation)
	assert.NoError(t, ValidateSignUp("ann@example.com", "éééééé", "éééééé"))
}

func TestCategories(t *testing.T) {
	all := Categories()
	assert.Len(t, all, 9)
	for _, c := range all {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("Cars").Valid())
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "ann", DisplayNameFromEmail("ann@example.com"))
	assert.Equal(t, "plain", DisplayNameFromEmail("plain"))
}

func TestAd_VisibleTo(t *testing.T) {
	ad := &Ad{OwnerID: "owner", Active: true}
	assert.True(t, ad.VisibleTo(""))

	ad.Active = false
	assert.False(t, ad.VisibleTo(""))
	assert.False(t, ad.VisibleTo("someone-else"))
	assert.True(t, ad.VisibleTo("owner"))
}

func TestValidateProfileFields(t *testing.T) {
	got, err := ValidateProfileFields(ProfileFields{Phone: " 123 ", City: " Paris ", AvatarURL: "https://cdn.example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.City)
	assert.Equal(t, "123", got.Phone)

	_, err = ValidateProfileFields(ProfileFields{Phone: "123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "city", verr.Field)

	_, err = ValidateProfileFields(ProfileFields{City: "Paris", AvatarURL: "javascript:alert(1)"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ValidateProfileFields(ProfileFields{City: "Paris", Bio: strings.Repeat("b", MaxBioLength+1)})
	assert.ErrorIs(t, err, ErrValidation)
}
