package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter is a validated, normalized description of apartment search
// criteria. Nil pointer fields mean "unconstrained", which is distinct from
// zero or false. Filters are built once by ParseFilter and never mutated.
type Filter struct {
	Search        string
	ListingType   string
	MinPrice      *float64
	MaxPrice      *float64
	Bedrooms      *int
	Bathrooms     *int
	City          string
	State         string
	CompoundName  string
	DeveloperName string
	IsAvailable   *bool
	MinSquareFeet *float64
	MaxSquareFeet *float64
}

// NeedsNameResolution reports whether the filter references compound or
// developer names. Those live on related entities, not on the apartment
// document, so the store query alone can never satisfy them.
func (f *Filter) NeedsNameResolution() bool {
	return f.CompoundName != "" || f.DeveloperName != ""
}

// WithAvailability returns a copy with the availability constraint set.
// The receiver is left untouched.
func (f *Filter) WithAvailability(available bool) *Filter {
	clone := *f
	clone.IsAvailable = &available
	return &clone
}

// ParseFilter builds a Filter from raw query parameters. Every violated
// field is reported, not just the first. A parameter that is present but
// empty after trimming is an error: a field should either be omitted or be
// meaningful.
func ParseFilter(values url.Values) (*Filter, error) {
	f := &Filter{}
	verr := NewValidationError()

	f.Search = parseText(values, "search", verr)
	f.ListingType = parseText(values, "listingType", verr)
	f.City = parseText(values, "city", verr)
	f.State = parseText(values, "state", verr)
	f.CompoundName = parseText(values, "compoundName", verr)
	f.DeveloperName = parseText(values, "developerName", verr)

	f.MinPrice = parseNumber(values, "minPrice", verr)
	f.MaxPrice = parseNumber(values, "maxPrice", verr)
	f.MinSquareFeet = parseNumber(values, "minSquareFeet", verr)
	f.MaxSquareFeet = parseNumber(values, "maxSquareFeet", verr)

	f.Bedrooms = parseCount(values, "bedrooms", verr)
	f.Bathrooms = parseCount(values, "bathrooms", verr)

	if values.Has("isAvailable") {
		// Only the literal "true" means true; any other present value is
		// false. Absence stays nil, a third state meaning unconstrained.
		available := values.Get("isAvailable") == "true"
		f.IsAvailable = &available
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return f, nil
}

func parseText(values url.Values, key string, verr *ValidationError) string {
	if !values.Has(key) {
		return ""
	}
	trimmed := strings.TrimSpace(values.Get(key))
	if trimmed == "" {
		verr.Add(key, "cannot be empty")
		return ""
	}
	return trimmed
}

func parseNumber(values url.Values, key string, verr *ValidationError) *float64 {
	if !values.Has(key) {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(values.Get(key)), 64)
	if err != nil {
		verr.Add(key, "must be a valid number")
		return nil
	}
	if n < 0 {
		verr.Add(key, "must be at least 0")
		return nil
	}
	return &n
}

func parseCount(values url.Values, key string, verr *ValidationError) *int {
	if !values.Has(key) {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(key)))
	if err != nil {
		verr.Add(key, "must be a valid number")
		return nil
	}
	if n < 0 {
		verr.Add(key, "must be at least 0")
		return nil
	}
	if n > 10 {
		verr.Add(key, "cannot exceed 10")
		return nil
	}
	return &n
}
