package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApartment_DerivedAttributes(t *testing.T) {
	a := &Apartment{
		UnitName: "Sunset Villa",
		Project:  "Palm Heights",
		Address:  "12 Nile St",
		City:     "Cairo",
	}

	assert.Equal(t, "12 Nile St, Cairo", a.FullAddress())
	assert.Equal(t, "Sunset Villa - Palm Heights", a.Title())
}

func TestApartment_PriceFormatted(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "$0.00"},
		{950, "$950.00"},
		{1500, "$1,500.00"},
		{2500000, "$2,500,000.00"},
		{1234.56, "$1,234.56"},
		{1999.999, "$2,000.00"},
		{999.995, "$1,000.00"},
		{0.995, "$1.00"},
	}
	for _, tc := range cases {
		a := &Apartment{Price: tc.price}
		assert.Equal(t, tc.want, a.PriceFormatted(), "price %v", tc.price)
	}
}

func TestApartment_JSONIncludesDerivedAttributes(t *testing.T) {
	a := &Apartment{
		UnitName: "Sunset Villa",
		Project:  "Palm Heights",
		Address:  "12 Nile St",
		City:     "Cairo",
		Price:    1500,
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "12 Nile St, Cairo", decoded["fullAddress"])
	assert.Equal(t, "Sunset Villa - Palm Heights", decoded["title"])
	assert.Equal(t, "$1,500.00", decoded["priceFormatted"])
}

func TestApartment_IsFavoritedBy(t *testing.T) {
	a := &Apartment{Favorites: []string{"u1", "u2"}}

	assert.True(t, a.IsFavoritedBy("u1"))
	assert.False(t, a.IsFavoritedBy("u3"))
	assert.False(t, (&Apartment{}).IsFavoritedBy("u1"))
}

func TestPrincipal_Permissions(t *testing.T) {
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Principal{Role: RoleAgent}.IsAdmin())

	assert.True(t, Principal{Role: RoleAgent}.CanManageListings())
	assert.True(t, Principal{Role: RoleAdmin}.CanManageListings())
	assert.False(t, Principal{Role: RoleUser}.CanManageListings())
	assert.False(t, Principal{Role: RoleAnonymous}.CanManageListings())
}
