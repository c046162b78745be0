package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"go.uber.org/zap"
)

// Cache is an optional read-through cache for single-apartment lookups.
type Cache interface {
	GetApartment(ctx context.Context, id string) (*domain.Apartment, error)
	SetApartment(ctx context.Context, apartment *domain.Apartment) error
	DeleteApartment(ctx context.Context, id string) error
}

// EventPublisher emits lifecycle events. Publishing is best-effort: a failed
// publish is logged and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Notifier sends the listing-created notification to the creating agent.
type Notifier interface {
	SendApartmentCreatedEmail(toEmail, title string) error
}

const (
	SubjectApartmentCreated = "apartments.created"
	SubjectApartmentUpdated = "apartments.updated"
	SubjectApartmentDeleted = "apartments.deleted"
	SubjectApartmentToggled = "apartments.availability_toggled"
)

type CreateApartmentInput struct {
	UnitName    string   `json:"unitName"`
	UnitNumber  string   `json:"unitNumber"`
	Project     string   `json:"project"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Price       float64  `json:"price"`
	ListingType string   `json:"listingType"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	SquareFeet  float64  `json:"squareFeet"`
	Description string   `json:"description"`
	AmenityIDs  []string `json:"amenities"`
	Images      []string `json:"images"`
	DeveloperID string   `json:"developer"`
	CompoundID  string   `json:"compound"`
}

// ApartmentUsecase holds the visibility policy and lifecycle operations for
// apartments. Role-based branching lives here and nowhere else: callers hand
// in a principal and get back the slice of the listing set that principal may
// see.
type ApartmentUsecase struct {
	apartments domain.ApartmentRepository
	developers domain.DeveloperRepository
	compounds  domain.CompoundRepository
	amenities  domain.AmenityRepository
	cache      Cache
	publisher  EventPublisher
	notifier   Notifier
	logger     *zap.Logger
}

func NewApartmentUsecase(
	apartments domain.ApartmentRepository,
	developers domain.DeveloperRepository,
	compounds domain.CompoundRepository,
	amenities domain.AmenityRepository,
	cache Cache,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
) *ApartmentUsecase {
	return &ApartmentUsecase{
		apartments: apartments,
		developers: developers,
		compounds:  compounds,
		amenities:  amenities,
		cache:      cache,
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger.Named("ApartmentUsecase"),
	}
}

// Search is the public browsing view. Unless the caller explicitly asked for
// an availability state, unavailable apartments never leak out.
func (uc *ApartmentUsecase) Search(ctx context.Context, filter *domain.Filter, p domain.Principal) ([]*domain.Apartment, error) {
	effective := filter
	if filter.IsAvailable == nil && !p.IsAdmin() {
		effective = filter.WithAvailability(true)
	}
	return uc.runQuery(ctx, effective)
}

// SearchAdmin is the admin "all apartments" view: an absent availability
// constraint really means unconstrained.
func (uc *ApartmentUsecase) SearchAdmin(ctx context.Context, filter *domain.Filter, p domain.Principal) ([]*domain.Apartment, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return uc.runQuery(ctx, filter)
}

func (uc *ApartmentUsecase) runQuery(ctx context.Context, filter *domain.Filter) ([]*domain.Apartment, error) {
	result, err := uc.apartments.FindByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("apartment query failed", zap.Error(err))
		return nil, err
	}
	if result.NamesResolved {
		return result.Apartments, nil
	}
	return uc.narrowByNames(ctx, filter, result.Apartments)
}

// narrowByNames is the second phase of the composite query: compound and
// developer names live on related entities, so matching ids are resolved
// first and the fetched apartments filtered against them in memory.
func (uc *ApartmentUsecase) narrowByNames(ctx context.Context, filter *domain.Filter, apartments []*domain.Apartment) ([]*domain.Apartment, error) {
	if filter.CompoundName != "" {
		compounds, err := uc.compounds.FindByNameLike(ctx, filter.CompoundName)
		if err != nil {
			return nil, err
		}
		ids := make(map[string]struct{}, len(compounds))
		for _, c := range compounds {
			ids[c.ID] = struct{}{}
		}
		apartments = keepMatching(apartments, func(a *domain.Apartment) bool {
			_, ok := ids[a.Compound.ID]
			return ok
		})
	}
	if filter.DeveloperName != "" {
		developers, err := uc.developers.FindByNameLike(ctx, filter.DeveloperName)
		if err != nil {
			return nil, err
		}
		ids := make(map[string]struct{}, len(developers))
		for _, d := range developers {
			ids[d.ID] = struct{}{}
		}
		apartments = keepMatching(apartments, func(a *domain.Apartment) bool {
			_, ok := ids[a.Developer.ID]
			return ok
		})
	}
	return apartments, nil
}

func keepMatching(apartments []*domain.Apartment, keep func(*domain.Apartment) bool) []*domain.Apartment {
	out := apartments[:0:0]
	for _, a := range apartments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (uc *ApartmentUsecase) GetByID(ctx context.Context, id string) (*domain.Apartment, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetApartment(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	apartment, err := uc.apartments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetApartment(ctx, apartment); err != nil {
			uc.logger.Warn("failed to cache apartment", zap.String("apartment_id", id), zap.Error(err))
		}
	}
	return apartment, nil
}

// Create validates the payload, verifies every referenced entity actually
// exists, and only then persists. A missing reference fails before any write.
func (uc *ApartmentUsecase) Create(ctx context.Context, in *CreateApartmentInput, p domain.Principal) (*domain.Apartment, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, &in.DeveloperID, &in.CompoundID, in.AmenityIDs); err != nil {
		return nil, err
	}

	amenityRefs := make([]domain.NamedRef, 0, len(in.AmenityIDs))
	for _, id := range in.AmenityIDs {
		amenityRefs = append(amenityRefs, domain.NamedRef{ID: id})
	}
	apartment := &domain.Apartment{
		UnitName:    strings.TrimSpace(in.UnitName),
		UnitNumber:  strings.TrimSpace(in.UnitNumber),
		Project:     strings.TrimSpace(in.Project),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Price:       in.Price,
		ListingType: domain.ListingType(in.ListingType),
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		SquareFeet:  in.SquareFeet,
		Description: strings.TrimSpace(in.Description),
		Amenities:   amenityRefs,
		Images:      in.Images,
		IsAvailable: true,
		Agent:       domain.UserSummary{ID: p.ID},
		Favorites:   []string{},
		Developer:   domain.NamedRef{ID: in.DeveloperID},
		Compound:    domain.NamedRef{ID: in.CompoundID},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	created, err := uc.apartments.Create(ctx, apartment)
	if err != nil {
		uc.logger.Error("failed to create apartment", zap.String("agent_id", p.ID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("apartment created", zap.String("apartment_id", created.ID), zap.String("agent_id", p.ID))

	uc.publish(ctx, SubjectApartmentCreated, created)
	if uc.notifier != nil && p.Email != "" {
		if err := uc.notifier.SendApartmentCreatedEmail(p.Email, created.Title()); err != nil {
			uc.logger.Warn("failed to send listing-created email", zap.String("apartment_id", created.ID), zap.Error(err))
		}
	}
	return created, nil
}

// Update applies a partial update. Provided fields are validated before any
// store access; only the owning agent or an admin may mutate a listing, and
// any newly referenced entity must exist first.
func (uc *ApartmentUsecase) Update(ctx context.Context, id string, update *domain.ApartmentUpdate, p domain.Principal) (*domain.Apartment, error) {
	if err := validateUpdateInput(update); err != nil {
		return nil, err
	}
	existing, err := uc.apartments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && existing.Agent.ID != p.ID {
		uc.logger.Warn("forbidden apartment update",
			zap.String("apartment_id", id), zap.String("owner_id", existing.Agent.ID), zap.String("caller_id", p.ID))
		return nil, domain.ErrForbidden
	}

	var amenityIDs []string
	if update.AmenityIDs != nil {
		amenityIDs = *update.AmenityIDs
	}
	if err := uc.checkReferences(ctx, update.DeveloperID, update.CompoundID, amenityIDs); err != nil {
		return nil, err
	}

	updated, err := uc.apartments.Update(ctx, id, update)
	if err != nil {
		uc.logger.Error("failed to update apartment", zap.String("apartment_id", id), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, id)
	uc.publish(ctx, SubjectApartmentUpdated, updated)
	return updated, nil
}

func (uc *ApartmentUsecase) Delete(ctx context.Context, id string, p domain.Principal) error {
	existing, err := uc.apartments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && existing.Agent.ID != p.ID {
		return domain.ErrForbidden
	}

	deleted, err := uc.apartments.Delete(ctx, id)
	if err != nil {
		uc.logger.Error("failed to delete apartment", zap.String("apartment_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return domain.ErrApartmentNotFound
	}
	uc.logger.Info("apartment deleted", zap.String("apartment_id", id), zap.String("caller_id", p.ID))
	uc.invalidate(ctx, id)
	uc.publish(ctx, SubjectApartmentDeleted, map[string]string{"id": id})
	return nil
}

// MyListings is the owner-scoped view: strictly agent == caller, across all
// availability states, newest first. The general filter never applies here.
func (uc *ApartmentUsecase) MyListings(ctx context.Context, agentID string) ([]*domain.Apartment, error) {
	return uc.apartments.FindByAgent(ctx, agentID)
}

// ToggleAvailability flips the flag atomically and returns the fully
// reference-expanded apartment. Two concurrent toggles are last-write-wins.
func (uc *ApartmentUsecase) ToggleAvailability(ctx context.Context, id string) (*domain.Apartment, error) {
	apartment, err := uc.apartments.ToggleAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	uc.publish(ctx, SubjectApartmentToggled, apartment)
	return apartment, nil
}

// ByCompound and ByDeveloper are hard-coded to available-only regardless of
// who is asking.
func (uc *ApartmentUsecase) ByCompound(ctx context.Context, compoundID string) ([]*domain.Apartment, error) {
	if _, err := uc.compounds.FindByID(ctx, compoundID); err != nil {
		return nil, err
	}
	return uc.apartments.FindByCompound(ctx, compoundID)
}

func (uc *ApartmentUsecase) ByDeveloper(ctx context.Context, developerID string) ([]*domain.Apartment, error) {
	if _, err := uc.developers.FindByID(ctx, developerID); err != nil {
		return nil, err
	}
	return uc.apartments.FindByDeveloper(ctx, developerID)
}

// checkReferences verifies developer, compound and amenity ids resolve before
// any write that depends on them. Nil / empty values are skipped so partial
// updates only pay for what they touch.
func (uc *ApartmentUsecase) checkReferences(ctx context.Context, developerID, compoundID *string, amenityIDs []string) error {
	if developerID != nil && *developerID != "" {
		if _, err := uc.developers.FindByID(ctx, *developerID); err != nil {
			return err
		}
	}
	if compoundID != nil && *compoundID != "" {
		if _, err := uc.compounds.FindByID(ctx, *compoundID); err != nil {
			return err
		}
	}
	for _, amenityID := range amenityIDs {
		if _, err := uc.amenities.FindByID(ctx, amenityID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ApartmentUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteApartment(ctx, id); err != nil {
		uc.logger.Warn("failed to invalidate apartment cache", zap.String("apartment_id", id), zap.Error(err))
	}
}

func (uc *ApartmentUsecase) publish(ctx context.Context, subject string, data interface{}) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func validateCreateInput(in *CreateApartmentInput) error {
	verr := domain.NewValidationError()
	requireText(verr, "unitName", in.UnitName)
	requireText(verr, "unitNumber", in.UnitNumber)
	requireText(verr, "project", in.Project)
	requireText(verr, "address", in.Address)
	requireText(verr, "city", in.City)
	requireText(verr, "description", in.Description)
	requireText(verr, "developer", in.DeveloperID)
	requireText(verr, "compound", in.CompoundID)
	if in.Price < 0 {
		verr.Add("price", "must be at least 0")
	}
	if in.ListingType != string(domain.ListingTypeRent) && in.ListingType != string(domain.ListingTypeSale) {
		verr.Add("listingType", `must be either "rent" or "sale"`)
	}
	if in.Bedrooms < 0 || in.Bedrooms > 20 {
		verr.Add("bedrooms", "must be between 0 and 20")
	}
	if in.Bathrooms < 0 || in.Bathrooms > 20 {
		verr.Add("bathrooms", "must be between 0 and 20")
	}
	if in.SquareFeet < 0 {
		verr.Add("squareFeet", "must be at least 0")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// validateUpdateInput applies the same field rules as create, but only to
// fields the partial update actually carries. A provided field may not clear a
// required value or move a number out of range.
func validateUpdateInput(update *domain.ApartmentUpdate) error {
	verr := domain.NewValidationError()
	requireTextPtr(verr, "unitName", update.UnitName)
	requireTextPtr(verr, "unitNumber", update.UnitNumber)
	requireTextPtr(verr, "project", update.Project)
	requireTextPtr(verr, "address", update.Address)
	requireTextPtr(verr, "city", update.City)
	requireTextPtr(verr, "description", update.Description)
	requireTextPtr(verr, "developer", update.DeveloperID)
	requireTextPtr(verr, "compound", update.CompoundID)
	if update.Price != nil && *update.Price < 0 {
		verr.Add("price", "must be at least 0")
	}
	if update.ListingType != nil && *update.ListingType != domain.ListingTypeRent && *update.ListingType != domain.ListingTypeSale {
		verr.Add("listingType", `must be either "rent" or "sale"`)
	}
	if update.Bedrooms != nil && (*update.Bedrooms < 0 || *update.Bedrooms > 20) {
		verr.Add("bedrooms", "must be between 0 and 20")
	}
	if update.Bathrooms != nil && (*update.Bathrooms < 0 || *update.Bathrooms > 20) {
		verr.Add("bathrooms", "must be between 0 and 20")
	}
	if update.SquareFeet != nil && *update.SquareFeet < 0 {
		verr.Add("squareFeet", "must be at least 0")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func requireText(verr *domain.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, "is required")
	}
}

func requireTextPtr(verr *domain.ValidationError, field string, value *string) {
	if value != nil {
		requireText(verr, field, *value)
	}
}

// IsReferenceError reports whether err is a missing developer, compound or
// amenity reference, as opposed to the target apartment itself being absent.
func IsReferenceError(err error) bool {
	return errors.Is(err, domain.ErrDeveloperNotFound) ||
		errors.Is(err, domain.ErrCompoundNotFound) ||
		errors.Is(err, domain.ErrAmenityNotFound)
}
