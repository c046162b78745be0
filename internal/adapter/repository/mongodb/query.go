package mongodb

import (
	"regexp"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"go.mongodb.org/mongo-driver/bson"
)

// buildApartmentQuery translates a normalized filter into a predicate over
// the apartments collection. The second return value reports whether the
// predicate fully expresses the filter: compound and developer names
// reference other collections and always need a second, in-memory pass.
func buildApartmentQuery(f *domain.Filter) (bson.M, bool) {
	query := bson.M{}

	if f.Search != "" {
		// Any substring hit on unit name, unit number or project qualifies.
		// This is a plain OR, not a ranked full-text score.
		query["$or"] = bson.A{
			bson.M{"unit_name": ciSubstring(f.Search)},
			bson.M{"unit_number": ciSubstring(f.Search)},
			bson.M{"project": ciSubstring(f.Search)},
		}
	}

	if rng := rangePredicate(f.MinPrice, f.MaxPrice); len(rng) > 0 {
		query["price"] = rng
	}
	if rng := rangePredicate(f.MinSquareFeet, f.MaxSquareFeet); len(rng) > 0 {
		query["square_feet"] = rng
	}

	if f.Bedrooms != nil {
		query["bedrooms"] = *f.Bedrooms
	}
	if f.Bathrooms != nil {
		query["bathrooms"] = *f.Bathrooms
	}
	if f.ListingType != "" {
		query["listing_type"] = f.ListingType
	}
	if f.City != "" {
		query["city"] = ciSubstring(f.City)
	}
	if f.State != "" {
		query["state"] = ciSubstring(f.State)
	}
	if f.IsAvailable != nil {
		query["is_available"] = *f.IsAvailable
	}

	return query, !f.NeedsNameResolution()
}

// rangePredicate composes independent bounds into one inclusive range.
func rangePredicate(min, max *float64) bson.M {
	rng := bson.M{}
	if min != nil {
		rng["$gte"] = *min
	}
	if max != nil {
		rng["$lte"] = *max
	}
	return rng
}

func ciSubstring(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func ciExact(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}
