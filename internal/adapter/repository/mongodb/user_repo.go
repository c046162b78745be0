package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/user/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewUserRepository(db *mongo.Database, logger *zap.Logger) *UserRepository {
	r := &UserRepository{
		collection: db.Collection("users"),
		logger:     logger.Named("UserRepository"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		r.logger.Warn("failed to ensure email index", zap.Error(err))
	}

	return r
}

// Create hashes the plaintext password and stores the account. Emails are
// normalized to lower case so the unique index catches case variants.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("mongodb: hash password: %w", err)
	}

	now := time.Now()
	doc := &userDocument{
		ID:        primitive.NewObjectID(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     strings.ToLower(user.Email),
		Password:  string(hashed),
		Role:      user.Role,
		Phone:     user.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("mongodb: insert user: %w", err)
	}
	r.logger.Info("user created", zap.String("user_id", doc.ID.Hex()))
	return doc.toEntity(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, query bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("mongodb: find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb: list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode users: %w", err)
	}
	users := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toEntity())
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"role": role})
}

// ToggleActive flips the active flag server-side, same pipeline trick as
// apartment availability.
func (r *UserRepository) ToggleActive(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}

	pipeline := bson.A{bson.M{"$set": bson.M{
		"is_active":  bson.M{"$not": "$is_active"},
		"updated_at": "$$NOW",
	}}}
	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc userDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("mongodb: toggle user status: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrUserNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"last_login": at}})
	if err != nil {
		return fmt.Errorf("mongodb: stamp last login: %w", err)
	}
	return nil
}

func (r *UserRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}
	set["updated_at"] = time.Now()

	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc userDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("mongodb: update user: %w", err)
	}
	return doc.toEntity(), nil
}
