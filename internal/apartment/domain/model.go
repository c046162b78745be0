package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
)

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAgent     Role = "agent"
	RoleAdmin     Role = "admin"
)

// Principal is the identity a request acts as. Anonymous principals have an
// empty ID.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanManageListings reports whether the principal may create, update or
// delete apartments.
func (p Principal) CanManageListings() bool {
	return p.Role == RoleAgent || p.Role == RoleAdmin
}

// UserSummary is the expanded view of an agent reference on an apartment.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// NamedRef is the expanded view of a developer, compound or amenity
// reference: just the id and display name, so callers never need a second
// fetch.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Apartment struct {
	ID          string      `json:"id"`
	UnitName    string      `json:"unitName"`
	UnitNumber  string      `json:"unitNumber"`
	Project     string      `json:"project"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state,omitempty"`
	Price       float64     `json:"price"`
	ListingType ListingType `json:"listingType"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	SquareFeet  float64     `json:"squareFeet"`
	Description string      `json:"description"`
	Amenities   []NamedRef  `json:"amenities"`
	Images      []string    `json:"images"`
	IsAvailable bool        `json:"isAvailable"`
	Agent       UserSummary `json:"agent"`
	Favorites   []string    `json:"favorites"`
	Developer   NamedRef    `json:"developer"`
	Compound    NamedRef    `json:"compound"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FullAddress is computed on read and never persisted.
func (a *Apartment) FullAddress() string {
	return a.Address + ", " + a.City
}

// Title is the display name of the unit within its project.
func (a *Apartment) Title() string {
	return a.UnitName + " - " + a.Project
}

// PriceFormatted renders the price as a USD amount with thousands separators.
func (a *Apartment) PriceFormatted() string {
	total := int64(math.Round(a.Price * 100))
	whole := total / 100
	cents := total % 100
	var groups []string
	for whole >= 1000 {
		groups = append([]string{fmt.Sprintf("%03d", whole%1000)}, groups...)
		whole /= 1000
	}
	groups = append([]string{fmt.Sprintf("%d", whole)}, groups...)
	return fmt.Sprintf("$%s.%02d", strings.Join(groups, ","), cents)
}

// MarshalJSON folds the derived attributes into the serialized form so API
// consumers get them without a second computation.
func (a *Apartment) MarshalJSON() ([]byte, error) {
	type alias Apartment
	return json.Marshal(struct {
		*alias
		FullAddress    string `json:"fullAddress"`
		Title          string `json:"title"`
		PriceFormatted string `json:"priceFormatted"`
	}{
		alias:          (*alias)(a),
		FullAddress:    a.FullAddress(),
		Title:          a.Title(),
		PriceFormatted: a.PriceFormatted(),
	})
}

// IsFavoritedBy reports set membership in the favorites back-reference.
func (a *Apartment) IsFavoritedBy(userID string) bool {
	for _, id := range a.Favorites {
		if id == userID {
			return true
		}
	}
	return false
}

// ApartmentUpdate is a partial update. Nil fields are left untouched.
type ApartmentUpdate struct {
	UnitName    *string
	UnitNumber  *string
	Project     *string
	Address     *string
	City        *string
	State       *string
	Price       *float64
	ListingType *ListingType
	Bedrooms    *int
	Bathrooms   *int
	SquareFeet  *float64
	Description *string
	AmenityIDs  *[]string
	Images      *[]string
	IsAvailable *bool
	DeveloperID *string
	CompoundID  *string
}

type Developer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Compound struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Amenity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
