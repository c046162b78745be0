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

// referenceRepo is the shared persistence logic for the three reference
// collections. The exported repositories wrap it and convert documents to
// their own domain type.
type referenceRepo struct {
	collection *mongo.Collection
	notFound   error
	logger     *zap.Logger
}

func newReferenceRepo(db *mongo.Database, name string, notFound error, logger *zap.Logger) *referenceRepo {
	r := &referenceRepo{
		collection: db.Collection(name),
		notFound:   notFound,
		logger:     logger.Named("ReferenceRepository").With(zap.String("collection", name)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		r.logger.Warn("failed to ensure name index", zap.Error(err))
	}

	return r
}

var sortNameAsc = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

func (r *referenceRepo) findAll(ctx context.Context) ([]*referenceDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, sortNameAsc)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find %s: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []*referenceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode %s: %w", r.collection.Name(), err)
	}
	return docs, nil
}

func (r *referenceRepo) findByID(ctx context.Context, id string) (*referenceDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, r.notFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *referenceRepo) findByName(ctx context.Context, name string) (*referenceDocument, error) {
	return r.findOne(ctx, bson.M{"name": ciExact(name)})
}

func (r *referenceRepo) findByNameLike(ctx context.Context, name string) ([]*referenceDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"name": ciSubstring(name)})
	if err != nil {
		return nil, fmt.Errorf("mongodb: search %s by name: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []*referenceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode %s: %w", r.collection.Name(), err)
	}
	return docs, nil
}

func (r *referenceRepo) findOne(ctx context.Context, query bson.M) (*referenceDocument, error) {
	var doc referenceDocument
	if err := r.collection.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("mongodb: find %s: %w", r.collection.Name(), err)
	}
	return &doc, nil
}

func (r *referenceRepo) create(ctx context.Context, doc *referenceDocument) (*referenceDocument, error) {
	doc.ID = primitive.NewObjectID()
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("mongodb: insert into %s: %w", r.collection.Name(), err)
	}
	r.logger.Info("reference created", zap.String("id", doc.ID.Hex()), zap.String("name", doc.Name))
	return doc, nil
}

func (r *referenceRepo) update(ctx context.Context, id string, set bson.M) (*referenceDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, r.notFound
	}
	set["updated_at"] = time.Now()

	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc referenceDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("mongodb: update %s: %w", r.collection.Name(), err)
	}
	return &doc, nil
}

func (r *referenceRepo) delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("mongodb: delete from %s: %w", r.collection.Name(), err)
	}
	return res.DeletedCount > 0, nil
}

type DeveloperRepository struct {
	repo *referenceRepo
}

func NewDeveloperRepository(db *mongo.Database, logger *zap.Logger) *DeveloperRepository {
	return &DeveloperRepository{repo: newReferenceRepo(db, "developers", domain.ErrDeveloperNotFound, logger)}
}

func (r *DeveloperRepository) FindAll(ctx context.Context) ([]*domain.Developer, error) {
	docs, err := r.repo.findAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Developer, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainDeveloper(d))
	}
	return out, nil
}

func (r *DeveloperRepository) FindByID(ctx context.Context, id string) (*domain.Developer, error) {
	doc, err := r.repo.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainDeveloper(doc), nil
}

func (r *DeveloperRepository) FindByName(ctx context.Context, name string) (*domain.Developer, error) {
	doc, err := r.repo.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toDomainDeveloper(doc), nil
}

func (r *DeveloperRepository) FindByNameLike(ctx context.Context, name string) ([]*domain.Developer, error) {
	docs, err := r.repo.findByNameLike(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Developer, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainDeveloper(d))
	}
	return out, nil
}

func (r *DeveloperRepository) Create(ctx context.Context, developer *domain.Developer) (*domain.Developer, error) {
	doc, err := r.repo.create(ctx, &referenceDocument{
		Name:        developer.Name,
		Description: developer.Description,
		Website:     developer.Website,
	})
	if err != nil {
		return nil, err
	}
	return toDomainDeveloper(doc), nil
}

func (r *DeveloperRepository) Update(ctx context.Context, id string, update *domain.DeveloperUpdate) (*domain.Developer, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	doc, err := r.repo.update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return toDomainDeveloper(doc), nil
}

func (r *DeveloperRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.repo.delete(ctx, id)
}

type CompoundRepository struct {
	repo *referenceRepo
}

func NewCompoundRepository(db *mongo.Database, logger *zap.Logger) *CompoundRepository {
	return &CompoundRepository{repo: newReferenceRepo(db, "compounds", domain.ErrCompoundNotFound, logger)}
}

func (r *CompoundRepository) FindAll(ctx context.Context) ([]*domain.Compound, error) {
	docs, err := r.repo.findAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Compound, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainCompound(d))
	}
	return out, nil
}

func (r *CompoundRepository) FindByID(ctx context.Context, id string) (*domain.Compound, error) {
	doc, err := r.repo.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainCompound(doc), nil
}

func (r *CompoundRepository) FindByName(ctx context.Context, name string) (*domain.Compound, error) {
	doc, err := r.repo.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toDomainCompound(doc), nil
}

func (r *CompoundRepository) FindByNameLike(ctx context.Context, name string) ([]*domain.Compound, error) {
	docs, err := r.repo.findByNameLike(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Compound, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainCompound(d))
	}
	return out, nil
}

func (r *CompoundRepository) Create(ctx context.Context, compound *domain.Compound) (*domain.Compound, error) {
	doc, err := r.repo.create(ctx, &referenceDocument{
		Name:        compound.Name,
		Description: compound.Description,
		Location:    compound.Location,
	})
	if err != nil {
		return nil, err
	}
	return toDomainCompound(doc), nil
}

func (r *CompoundRepository) Update(ctx context.Context, id string, update *domain.CompoundUpdate) (*domain.Compound, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	doc, err := r.repo.update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return toDomainCompound(doc), nil
}

func (r *CompoundRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.repo.delete(ctx, id)
}

type AmenityRepository struct {
	repo *referenceRepo
}

func NewAmenityRepository(db *mongo.Database, logger *zap.Logger) *AmenityRepository {
	return &AmenityRepository{repo: newReferenceRepo(db, "amenities", domain.ErrAmenityNotFound, logger)}
}

func (r *AmenityRepository) FindAll(ctx context.Context) ([]*domain.Amenity, error) {
	docs, err := r.repo.findAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Amenity, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainAmenity(d))
	}
	return out, nil
}

func (r *AmenityRepository) FindByID(ctx context.Context, id string) (*domain.Amenity, error) {
	doc, err := r.repo.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainAmenity(doc), nil
}

func (r *AmenityRepository) FindByName(ctx context.Context, name string) (*domain.Amenity, error) {
	doc, err := r.repo.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toDomainAmenity(doc), nil
}

func (r *AmenityRepository) Create(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	doc, err := r.repo.create(ctx, &referenceDocument{
		Name:        amenity.Name,
		Description: amenity.Description,
	})
	if err != nil {
		return nil, err
	}
	return toDomainAmenity(doc), nil
}

func (r *AmenityRepository) Update(ctx context.Context, id string, update *domain.AmenityUpdate) (*domain.Amenity, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	doc, err := r.repo.update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return toDomainAmenity(doc), nil
}

func (r *AmenityRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.repo.delete(ctx, id)
}
