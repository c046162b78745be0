package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ApartmentRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	developers *mongo.Collection
	compounds  *mongo.Collection
	amenities  *mongo.Collection
	logger     *zap.Logger
}

func NewApartmentRepository(db *mongo.Database, logger *zap.Logger) *ApartmentRepository {
	r := &ApartmentRepository{
		collection: db.Collection("apartments"),
		users:      db.Collection("users"),
		developers: db.Collection("developers"),
		compounds:  db.Collection("compounds"),
		amenities:  db.Collection("amenities"),
		logger:     logger.Named("ApartmentRepository"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_available", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "agent", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "compound", Value: 1}, {Key: "is_available", Value: 1}}},
		{Keys: bson.D{{Key: "developer", Value: 1}, {Key: "is_available", Value: 1}}},
		{Keys: bson.D{{Key: "favorites", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("failed to ensure apartment indexes", zap.Error(err))
	}

	return r
}

var sortNewestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (r *ApartmentRepository) FindByFilter(ctx context.Context, filter *domain.Filter) (*domain.QueryResult, error) {
	query, namesResolved := buildApartmentQuery(filter)
	apartments, err := r.findMany(ctx, query)
	if err != nil {
		return nil, err
	}
	return &domain.QueryResult{Apartments: apartments, NamesResolved: namesResolved}, nil
}

func (r *ApartmentRepository) FindByID(ctx context.Context, id string) (*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrApartmentNotFound
	}
	var doc apartmentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, fmt.Errorf("mongodb: find apartment: %w", err)
	}
	return r.expandOne(ctx, &doc)
}

func (r *ApartmentRepository) Create(ctx context.Context, apartment *domain.Apartment) (*domain.Apartment, error) {
	doc, err := toApartmentDocument(apartment)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Favorites == nil {
		doc.Favorites = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongodb: insert apartment: %w", err)
	}
	r.logger.Info("apartment inserted", zap.String("apartment_id", doc.ID.Hex()))
	return r.FindByID(ctx, doc.ID.Hex())
}

func (r *ApartmentRepository) Update(ctx context.Context, id string, update *domain.ApartmentUpdate) (*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrApartmentNotFound
	}
	set, err := buildUpdateSet(update)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = time.Now()

	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc apartmentDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, fmt.Errorf("mongodb: update apartment: %w", err)
	}
	return r.expandOne(ctx, &doc)
}

func (r *ApartmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("mongodb: delete apartment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *ApartmentRepository) FindByAgent(ctx context.Context, agentID string) ([]*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(agentID)
	if err != nil {
		return []*domain.Apartment{}, nil
	}
	return r.findMany(ctx, bson.M{"agent": oid})
}

func (r *ApartmentRepository) FindByCompound(ctx context.Context, compoundID string) ([]*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(compoundID)
	if err != nil {
		return []*domain.Apartment{}, nil
	}
	return r.findMany(ctx, bson.M{"compound": oid, "is_available": true})
}

func (r *ApartmentRepository) FindByDeveloper(ctx context.Context, developerID string) ([]*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(developerID)
	if err != nil {
		return []*domain.Apartment{}, nil
	}
	return r.findMany(ctx, bson.M{"developer": oid, "is_available": true})
}

func (r *ApartmentRepository) FindFavoritesByUser(ctx context.Context, userID string) ([]*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*domain.Apartment{}, nil
	}
	return r.findMany(ctx, bson.M{"favorites": oid, "is_available": true})
}

// AddToFavorites relies on $addToSet so concurrent adds from the same user
// converge to a single membership without read-modify-write races.
func (r *ApartmentRepository) AddToFavorites(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	return r.mutateFavorites(ctx, apartmentID, userID, "$addToSet")
}

// RemoveFromFavorites uses $pull; removing a non-member is a no-op.
func (r *ApartmentRepository) RemoveFromFavorites(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	return r.mutateFavorites(ctx, apartmentID, userID, "$pull")
}

func (r *ApartmentRepository) mutateFavorites(ctx context.Context, apartmentID, userID, op string) (*domain.Apartment, error) {
	aid, err := primitive.ObjectIDFromHex(apartmentID)
	if err != nil {
		return nil, domain.ErrApartmentNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("mongodb: invalid user id %q", userID)
	}

	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": aid},
		bson.M{op: bson.M{"favorites": uid}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc apartmentDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, fmt.Errorf("mongodb: mutate favorites: %w", err)
	}
	return r.expandOne(ctx, &doc)
}

// ToggleAvailability flips the flag in a single pipeline update, so the
// read-modify-write happens server-side and two concurrent toggles cannot
// observe a stale value.
func (r *ApartmentRepository) ToggleAvailability(ctx context.Context, id string) (*domain.Apartment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrApartmentNotFound
	}

	pipeline := bson.A{bson.M{"$set": bson.M{
		"is_available": bson.M{"$not": "$is_available"},
		"updated_at":   "$$NOW",
	}}}
	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc apartmentDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, fmt.Errorf("mongodb: toggle availability: %w", err)
	}
	return r.expandOne(ctx, &doc)
}

func (r *ApartmentRepository) findMany(ctx context.Context, query bson.M) ([]*domain.Apartment, error) {
	cursor, err := r.collection.Find(ctx, query, sortNewestFirst)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find apartments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*apartmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode apartments: %w", err)
	}
	return r.expandMany(ctx, docs)
}

func (r *ApartmentRepository) expandOne(ctx context.Context, doc *apartmentDocument) (*domain.Apartment, error) {
	expanded, err := r.expandMany(ctx, []*apartmentDocument{doc})
	if err != nil {
		return nil, err
	}
	return expanded[0], nil
}

// expandMany resolves every referenced agent, developer, compound and
// amenity in one batched query per collection and attaches the summaries.
func (r *ApartmentRepository) expandMany(ctx context.Context, docs []*apartmentDocument) ([]*domain.Apartment, error) {
	apartments := make([]*domain.Apartment, 0, len(docs))
	if len(docs) == 0 {
		return apartments, nil
	}

	userIDs := map[primitive.ObjectID]struct{}{}
	developerIDs := map[primitive.ObjectID]struct{}{}
	compoundIDs := map[primitive.ObjectID]struct{}{}
	amenityIDs := map[primitive.ObjectID]struct{}{}
	for _, d := range docs {
		userIDs[d.Agent] = struct{}{}
		developerIDs[d.Developer] = struct{}{}
		compoundIDs[d.Compound] = struct{}{}
		for _, id := range d.Amenities {
			amenityIDs[id] = struct{}{}
		}
	}

	refs := &refSummaries{}
	var err error
	if refs.users, err = r.loadUsers(ctx, userIDs); err != nil {
		return nil, err
	}
	if refs.developers, err = loadReferences(ctx, r.developers, developerIDs); err != nil {
		return nil, err
	}
	if refs.compounds, err = loadReferences(ctx, r.compounds, compoundIDs); err != nil {
		return nil, err
	}
	if refs.amenities, err = loadReferences(ctx, r.amenities, amenityIDs); err != nil {
		return nil, err
	}

	for _, d := range docs {
		apartments = append(apartments, toDomainApartment(d, refs))
	}
	return apartments, nil
}

func (r *ApartmentRepository) loadUsers(ctx context.Context, ids map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*userDocument, error) {
	out := make(map[primitive.ObjectID]*userDocument, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": idList(ids)}})
	if err != nil {
		return nil, fmt.Errorf("mongodb: load agents: %w", err)
	}
	defer cursor.Close(ctx)
	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode agents: %w", err)
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func loadReferences(ctx context.Context, collection *mongo.Collection, ids map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*referenceDocument, error) {
	out := make(map[primitive.ObjectID]*referenceDocument, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": idList(ids)}})
	if err != nil {
		return nil, fmt.Errorf("mongodb: load %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)
	var docs []*referenceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode %s: %w", collection.Name(), err)
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func idList(ids map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	list := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	return list
}

func toApartmentDocument(a *domain.Apartment) (*apartmentDocument, error) {
	agent, err := primitive.ObjectIDFromHex(a.Agent.ID)
	if err != nil {
		return nil, fmt.Errorf("mongodb: invalid agent id %q", a.Agent.ID)
	}
	developer, err := primitive.ObjectIDFromHex(a.Developer.ID)
	if err != nil {
		return nil, fmt.Errorf("mongodb: invalid developer id %q", a.Developer.ID)
	}
	compound, err := primitive.ObjectIDFromHex(a.Compound.ID)
	if err != nil {
		return nil, fmt.Errorf("mongodb: invalid compound id %q", a.Compound.ID)
	}

	doc := &apartmentDocument{
		UnitName:    a.UnitName,
		UnitNumber:  a.UnitNumber,
		Project:     a.Project,
		Address:     a.Address,
		City:        a.City,
		State:       a.State,
		Price:       a.Price,
		ListingType: string(a.ListingType),
		Bedrooms:    a.Bedrooms,
		Bathrooms:   a.Bathrooms,
		SquareFeet:  a.SquareFeet,
		Description: a.Description,
		Images:      a.Images,
		IsAvailable: a.IsAvailable,
		Agent:       agent,
		Developer:   developer,
		Compound:    compound,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	for _, ref := range a.Amenities {
		id, err := primitive.ObjectIDFromHex(ref.ID)
		if err != nil {
			return nil, fmt.Errorf("mongodb: invalid amenity id %q", ref.ID)
		}
		doc.Amenities = append(doc.Amenities, id)
	}
	for _, fav := range a.Favorites {
		id, err := primitive.ObjectIDFromHex(fav)
		if err != nil {
			return nil, fmt.Errorf("mongodb: invalid favorite user id %q", fav)
		}
		doc.Favorites = append(doc.Favorites, id)
	}
	return doc, nil
}

func buildUpdateSet(update *domain.ApartmentUpdate) (bson.M, error) {
	set := bson.M{}
	if update.UnitName != nil {
		set["unit_name"] = *update.UnitName
	}
	if update.UnitNumber != nil {
		set["unit_number"] = *update.UnitNumber
	}
	if update.Project != nil {
		set["project"] = *update.Project
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.City != nil {
		set["city"] = *update.City
	}
	if update.State != nil {
		set["state"] = *update.State
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.ListingType != nil {
		set["listing_type"] = string(*update.ListingType)
	}
	if update.Bedrooms != nil {
		set["bedrooms"] = *update.Bedrooms
	}
	if update.Bathrooms != nil {
		set["bathrooms"] = *update.Bathrooms
	}
	if update.SquareFeet != nil {
		set["square_feet"] = *update.SquareFeet
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.IsAvailable != nil {
		set["is_available"] = *update.IsAvailable
	}
	if update.AmenityIDs != nil {
		ids := make([]primitive.ObjectID, 0, len(*update.AmenityIDs))
		for _, raw := range *update.AmenityIDs {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return nil, fmt.Errorf("mongodb: invalid amenity id %q", raw)
			}
			ids = append(ids, id)
		}
		set["amenities"] = ids
	}
	if update.DeveloperID != nil {
		id, err := primitive.ObjectIDFromHex(*update.DeveloperID)
		if err != nil {
			return nil, fmt.Errorf("mongodb: invalid developer id %q", *update.DeveloperID)
		}
		set["developer"] = id
	}
	if update.CompoundID != nil {
		id, err := primitive.ObjectIDFromHex(*update.CompoundID)
		if err != nil {
			return nil, fmt.Errorf("mongodb: invalid compound id %q", *update.CompoundID)
		}
		set["compound"] = id
	}
	return set, nil
}
