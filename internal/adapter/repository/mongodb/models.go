package mongodb

import (
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/user/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type apartmentDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	UnitName    string               `bson:"unit_name"`
	UnitNumber  string               `bson:"unit_number"`
	Project     string               `bson:"project"`
	Address     string               `bson:"address"`
	City        string               `bson:"city"`
	State       string               `bson:"state,omitempty"`
	Price       float64              `bson:"price"`
	ListingType string               `bson:"listing_type"`
	Bedrooms    int                  `bson:"bedrooms"`
	Bathrooms   int                  `bson:"bathrooms"`
	SquareFeet  float64              `bson:"square_feet"`
	Description string               `bson:"description"`
	Amenities   []primitive.ObjectID `bson:"amenities,omitempty"`
	Images      []string             `bson:"images,omitempty"`
	IsAvailable bool                 `bson:"is_available"`
	Agent       primitive.ObjectID   `bson:"agent"`
	Favorites   []primitive.ObjectID `bson:"favorites"`
	Developer   primitive.ObjectID   `bson:"developer"`
	Compound    primitive.ObjectID   `bson:"compound"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

// referenceDocument backs the developers, compounds and amenities
// collections. The three schemas differ only in optional descriptive fields,
// so one document type serves all of them.
type referenceDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Website     string             `bson:"website,omitempty"`
	Location    string             `bson:"location,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Phone     string             `bson:"phone,omitempty"`
	IsActive  bool               `bson:"is_active"`
	LastLogin *time.Time         `bson:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// refSummaries holds the batch-resolved reference lookups used to expand a
// page of apartment documents without a query per row.
type refSummaries struct {
	users      map[primitive.ObjectID]*userDocument
	developers map[primitive.ObjectID]*referenceDocument
	compounds  map[primitive.ObjectID]*referenceDocument
	amenities  map[primitive.ObjectID]*referenceDocument
}

func toDomainApartment(d *apartmentDocument, refs *refSummaries) *domain.Apartment {
	if d == nil {
		return nil
	}
	a := &domain.Apartment{
		ID:          d.ID.Hex(),
		UnitName:    d.UnitName,
		UnitNumber:  d.UnitNumber,
		Project:     d.Project,
		Address:     d.Address,
		City:        d.City,
		State:       d.State,
		Price:       d.Price,
		ListingType: domain.ListingType(d.ListingType),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		SquareFeet:  d.SquareFeet,
		Description: d.Description,
		Images:      d.Images,
		IsAvailable: d.IsAvailable,
		Agent:       domain.UserSummary{ID: d.Agent.Hex()},
		Developer:   domain.NamedRef{ID: d.Developer.Hex()},
		Compound:    domain.NamedRef{ID: d.Compound.Hex()},
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	a.Favorites = make([]string, 0, len(d.Favorites))
	for _, id := range d.Favorites {
		a.Favorites = append(a.Favorites, id.Hex())
	}
	a.Amenities = make([]domain.NamedRef, 0, len(d.Amenities))
	for _, id := range d.Amenities {
		a.Amenities = append(a.Amenities, domain.NamedRef{ID: id.Hex()})
	}
	if refs == nil {
		return a
	}
	if u, ok := refs.users[d.Agent]; ok {
		a.Agent = domain.UserSummary{ID: u.ID.Hex(), FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	}
	if dev, ok := refs.developers[d.Developer]; ok {
		a.Developer.Name = dev.Name
	}
	if c, ok := refs.compounds[d.Compound]; ok {
		a.Compound.Name = c.Name
	}
	for i, id := range d.Amenities {
		if am, ok := refs.amenities[id]; ok {
			a.Amenities[i].Name = am.Name
		}
	}
	return a
}

func toDomainDeveloper(d *referenceDocument) *domain.Developer {
	if d == nil {
		return nil
	}
	return &domain.Developer{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Website:     d.Website,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDomainCompound(d *referenceDocument) *domain.Compound {
	if d == nil {
		return nil
	}
	return &domain.Compound{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDomainAmenity(d *referenceDocument) *domain.Amenity {
	if d == nil {
		return nil
	}
	return &domain.Amenity{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Password:  d.Password,
		Role:      d.Role,
		Phone:     d.Phone,
		IsActive:  d.IsActive,
		LastLogin: d.LastLogin,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
