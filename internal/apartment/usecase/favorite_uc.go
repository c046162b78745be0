package usecase

import (
	"context"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"go.uber.org/zap"
)

// FavoriteUsecase is the set-membership relation between users and
// apartments. Add and Remove are idempotent: favoriting twice or removing a
// non-favorite is a successful no-op.
type FavoriteUsecase struct {
	apartments domain.ApartmentRepository
	cache      Cache
	logger     *zap.Logger
}

func NewFavoriteUsecase(apartments domain.ApartmentRepository, cache Cache, logger *zap.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		apartments: apartments,
		cache:      cache,
		logger:     logger.Named("FavoriteUsecase"),
	}
}

func (uc *FavoriteUsecase) Add(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	// Existence is checked before the set is touched so a missing apartment
	// surfaces as not-found rather than a silent no-op.
	if _, err := uc.apartments.FindByID(ctx, apartmentID); err != nil {
		return nil, err
	}
	apartment, err := uc.apartments.AddToFavorites(ctx, apartmentID, userID)
	if err != nil {
		uc.logger.Error("failed to add favorite",
			zap.String("apartment_id", apartmentID), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, apartmentID)
	return apartment, nil
}

func (uc *FavoriteUsecase) Remove(ctx context.Context, apartmentID, userID string) (*domain.Apartment, error) {
	if _, err := uc.apartments.FindByID(ctx, apartmentID); err != nil {
		return nil, err
	}
	apartment, err := uc.apartments.RemoveFromFavorites(ctx, apartmentID, userID)
	if err != nil {
		uc.logger.Error("failed to remove favorite",
			zap.String("apartment_id", apartmentID), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, apartmentID)
	return apartment, nil
}

// List returns the caller's favorites, available apartments only, newest
// first.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]*domain.Apartment, error) {
	return uc.apartments.FindFavoritesByUser(ctx, userID)
}

func (uc *FavoriteUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteApartment(ctx, id); err != nil {
		uc.logger.Warn("failed to invalidate apartment cache", zap.String("apartment_id", id), zap.Error(err))
	}
}
