package domain

import "context"

// QueryResult tags a filtered fetch with whether compound/developer name
// constraints were fully applied. They never are at store level, so a caller
// receiving NamesResolved == false must narrow the result in memory before
// returning it.
type QueryResult struct {
	Apartments    []*Apartment
	NamesResolved bool
}

// ApartmentRepository is the persistent apartment collection. All multi-result
// reads return apartments sorted by creation time descending with references
// expanded into summaries.
type ApartmentRepository interface {
	FindByFilter(ctx context.Context, filter *Filter) (*QueryResult, error)
	FindByID(ctx context.Context, id string) (*Apartment, error)
	Create(ctx context.Context, apartment *Apartment) (*Apartment, error)
	Update(ctx context.Context, id string, update *ApartmentUpdate) (*Apartment, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindByAgent(ctx context.Context, agentID string) ([]*Apartment, error)
	// FindByCompound, FindByDeveloper and FindFavoritesByUser only return
	// available apartments.
	FindByCompound(ctx context.Context, compoundID string) ([]*Apartment, error)
	FindByDeveloper(ctx context.Context, developerID string) ([]*Apartment, error)
	FindFavoritesByUser(ctx context.Context, userID string) ([]*Apartment, error)
	// AddToFavorites and RemoveFromFavorites are atomic set operations at the
	// store level, safe under concurrent toggles from the same user.
	AddToFavorites(ctx context.Context, apartmentID, userID string) (*Apartment, error)
	RemoveFromFavorites(ctx context.Context, apartmentID, userID string) (*Apartment, error)
	ToggleAvailability(ctx context.Context, id string) (*Apartment, error)
}

type DeveloperUpdate struct {
	Name        *string
	Description *string
	Website     *string
}

type DeveloperRepository interface {
	FindAll(ctx context.Context) ([]*Developer, error)
	FindByID(ctx context.Context, id string) (*Developer, error)
	// FindByName matches the whole name case-insensitively.
	FindByName(ctx context.Context, name string) (*Developer, error)
	// FindByNameLike matches a case-insensitive substring of the name.
	FindByNameLike(ctx context.Context, name string) ([]*Developer, error)
	Create(ctx context.Context, developer *Developer) (*Developer, error)
	Update(ctx context.Context, id string, update *DeveloperUpdate) (*Developer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type CompoundUpdate struct {
	Name        *string
	Location    *string
	Description *string
}

type CompoundRepository interface {
	FindAll(ctx context.Context) ([]*Compound, error)
	FindByID(ctx context.Context, id string) (*Compound, error)
	FindByName(ctx context.Context, name string) (*Compound, error)
	FindByNameLike(ctx context.Context, name string) ([]*Compound, error)
	Create(ctx context.Context, compound *Compound) (*Compound, error)
	Update(ctx context.Context, id string, update *CompoundUpdate) (*Compound, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type AmenityUpdate struct {
	Name        *string
	Description *string
}

type AmenityRepository interface {
	FindAll(ctx context.Context) ([]*Amenity, error)
	FindByID(ctx context.Context, id string) (*Amenity, error)
	FindByName(ctx context.Context, name string) (*Amenity, error)
	Create(ctx context.Context, amenity *Amenity) (*Amenity, error)
	Update(ctx context.Context, id string, update *AmenityUpdate) (*Amenity, error)
	Delete(ctx context.Context, id string) (bool, error)
}
