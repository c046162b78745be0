package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
)

// fakeApartmentRepo is an in-memory ApartmentRepository. It honors the same
// contracts the real store does: availability predicates, the hard-coded
// available-only views, newest-first ordering on multi-result reads, and
// NamesResolved == false whenever the filter names a compound or developer.
type fakeApartmentRepo struct {
	mu         sync.Mutex
	apartments []*domain.Apartment
	nextID     int
	lastFilter *domain.Filter
}

func (f *fakeApartmentRepo) FindByFilter(ctx context.Context, filter *domain.Filter) (*domain.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter

	var out []*domain.Apartment
	for _, a := range f.apartments {
		if filter.IsAvailable != nil && a.IsAvailable != *filter.IsAvailable {
			continue
		}
		out = append(out, a)
	}
	sortNewestFirst(out)
	return &domain.QueryResult{Apartments: out, NamesResolved: !filter.NeedsNameResolution()}, nil
}

func sortNewestFirst(apartments []*domain.Apartment) {
	sort.SliceStable(apartments, func(i, j int) bool {
		return apartments[i].CreatedAt.After(apartments[j].CreatedAt)
	})
}

func (f *fakeApartmentRepo) FindByID(ctx context.Context, id string) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apartments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrApartmentNotFound
}

func (f *fakeApartmentRepo) Create(ctx context.Context, apartment *domain.Apartment) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	apartment.ID = fmt.Sprintf("apt-%d", f.nextID)
	if apartment.CreatedAt.IsZero() {
		apartment.CreatedAt = time.Now()
	}
	f.apartments = append(f.apartments, apartment)
	return apartment, nil
}

func (f *fakeApartmentRepo) Update(ctx context.Context, id string, update *domain.ApartmentUpdate) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apartments {
		if a.ID != id {
			continue
		}
		if update.Price != nil {
			a.Price = *update.Price
		}
		if update.UnitName != nil {
			a.UnitName = *update.UnitName
		}
		if update.IsAvailable != nil {
			a.IsAvailable = *update.IsAvailable
		}
		if update.DeveloperID != nil {
			a.Developer = domain.NamedRef{ID: *update.DeveloperID}
		}
		if update.CompoundID != nil {
			a.Compound = domain.NamedRef{ID: *update.CompoundID}
		}
		return a, nil
	}
	return nil, domain.ErrApartmentNotFound
}

func (f *fakeApartmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.apartments {
		if a.ID == id {
			f.apartments = append(f.apartments[:i], f.apartments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApartmentRepo) FindByAgent(ctx context.Context, agentID string) ([]*domain.Apartment, error) {
	return f.filter(func(a *domain.Apartment) bool { return a.Agent.ID == agentID }), nil
}

func (f *fakeApartmentRepo) FindByCompound(ctx context.Context, compoundID string) ([]*domain.Apartment, error) {
	return f.filter(func(a *domain.Apartment) bool { return a.Compound.ID == compoundID && a.IsAvailable }), nil
}

func (f *fakeApartmentRepo) FindByDeveloper(ctx context.Context, developerID string) ([]*domain.Apartment, error) {
	return f.filter(func(a *domain.Apartment) bool { return a.Developer.ID == developerID && a.IsAvailable }), nil
}

func (f *fakeApartmentRepo) FindFavoritesByUser(ctx context.Context, userID string) ([]*domain.Apartment, error) {
	return f.filter(func(a *domain.Apartment) bool { return a.IsFavoritedBy(userID) && a.IsAvailable }), nil
}

func (f *fakeApartmentRepo) AddToFavorites(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apartments {
		if a.ID != apartmentID {
			continue
		}
		if !a.IsFavoritedBy(userID) {
			a.Favorites = append(a.Favorites, userID)
		}
		return a, nil
	}
	return nil, domain.ErrApartmentNotFound
}

func (f *fakeApartmentRepo) RemoveFromFavorites(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apartments {
		if a.ID != apartmentID {
			continue
		}
		kept := a.Favorites[:0:0]
		for _, id := range a.Favorites {
			if id != userID {
				kept = append(kept, id)
			}
		}
		a.Favorites = kept
		return a, nil
	}
	return nil, domain.ErrApartmentNotFound
}

func (f *fakeApartmentRepo) ToggleAvailability(ctx context.Context, id string) (*domain.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apartments {
		if a.ID == id {
			a.IsAvailable = !a.IsAvailable
			return a, nil
		}
	}
	return nil, domain.ErrApartmentNotFound
}

func (f *fakeApartmentRepo) filter(keep func(*domain.Apartment) bool) []*domain.Apartment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Apartment
	for _, a := range f.apartments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sortNewestFirst(out)
	return out
}

type fakeDeveloperRepo struct {
	items []*domain.Developer
}

func (f *fakeDeveloperRepo) FindAll(ctx context.Context) ([]*domain.Developer, error) {
	out := append([]*domain.Developer(nil), f.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDeveloperRepo) FindByID(ctx context.Context, id string) (*domain.Developer, error) {
	for _, d := range f.items {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domain.ErrDeveloperNotFound
}

func (f *fakeDeveloperRepo) FindByName(ctx context.Context, name string) (*domain.Developer, error) {
	for _, d := range f.items {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, domain.ErrDeveloperNotFound
}

func (f *fakeDeveloperRepo) FindByNameLike(ctx context.Context, name string) ([]*domain.Developer, error) {
	var out []*domain.Developer
	for _, d := range f.items {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeveloperRepo) Create(ctx context.Context, developer *domain.Developer) (*domain.Developer, error) {
	developer.ID = fmt.Sprintf("dev-%d", len(f.items)+1)
	f.items = append(f.items, developer)
	return developer, nil
}

func (f *fakeDeveloperRepo) Update(ctx context.Context, id string, update *domain.DeveloperUpdate) (*domain.Developer, error) {
	d, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		d.Name = *update.Name
	}
	if update.Description != nil {
		d.Description = *update.Description
	}
	if update.Website != nil {
		d.Website = *update.Website
	}
	return d, nil
}

func (f *fakeDeveloperRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i, d := range f.items {
		if d.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeCompoundRepo struct {
	items []*domain.Compound
}

func (f *fakeCompoundRepo) FindAll(ctx context.Context) ([]*domain.Compound, error) {
	out := append([]*domain.Compound(nil), f.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCompoundRepo) FindByID(ctx context.Context, id string) (*domain.Compound, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCompoundNotFound
}

func (f *fakeCompoundRepo) FindByName(ctx context.Context, name string) (*domain.Compound, error) {
	for _, c := range f.items {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, domain.ErrCompoundNotFound
}

func (f *fakeCompoundRepo) FindByNameLike(ctx context.Context, name string) ([]*domain.Compound, error) {
	var out []*domain.Compound
	for _, c := range f.items {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompoundRepo) Create(ctx context.Context, compound *domain.Compound) (*domain.Compound, error) {
	compound.ID = fmt.Sprintf("cmp-%d", len(f.items)+1)
	f.items = append(f.items, compound)
	return compound, nil
}

func (f *fakeCompoundRepo) Update(ctx context.Context, id string, update *domain.CompoundUpdate) (*domain.Compound, error) {
	c, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Location != nil {
		c.Location = *update.Location
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	return c, nil
}

func (f *fakeCompoundRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeAmenityRepo struct {
	items []*domain.Amenity
}

func (f *fakeAmenityRepo) FindAll(ctx context.Context) ([]*domain.Amenity, error) {
	out := append([]*domain.Amenity(nil), f.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAmenityRepo) FindByID(ctx context.Context, id string) (*domain.Amenity, error) {
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAmenityNotFound
}

func (f *fakeAmenityRepo) FindByName(ctx context.Context, name string) (*domain.Amenity, error) {
	for _, a := range f.items {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return nil, domain.ErrAmenityNotFound
}

func (f *fakeAmenityRepo) Create(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	amenity.ID = fmt.Sprintf("amn-%d", len(f.items)+1)
	f.items = append(f.items, amenity)
	return amenity, nil
}

func (f *fakeAmenityRepo) Update(ctx context.Context, id string, update *domain.AmenityUpdate) (*domain.Amenity, error) {
	a, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Description != nil {
		a.Description = *update.Description
	}
	return a, nil
}

func (f *fakeAmenityRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeCache struct {
	entries map[string]*domain.Apartment
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Apartment)}
}

func (f *fakeCache) GetApartment(ctx context.Context, id string) (*domain.Apartment, error) {
	return f.entries[id], nil
}

func (f *fakeCache) SetApartment(ctx context.Context, apartment *domain.Apartment) error {
	f.entries[apartment.ID] = apartment
	return nil
}

func (f *fakeCache) DeleteApartment(ctx context.Context, id string) error {
	delete(f.entries, id)
	f.deletes = append(f.deletes, id)
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeNotifier struct {
	emails []string
	titles []string
}

func (f *fakeNotifier) SendApartmentCreatedEmail(toEmail, title string) error {
	f.emails = append(f.emails, toEmail)
	f.titles = append(f.titles, title)
	return nil
}
