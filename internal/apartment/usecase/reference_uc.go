package usecase

import (
	"context"
	"errors"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"go.uber.org/zap"
)

// Reference entities (developers, compounds, amenities) share one contract:
// names are unique case-insensitively on create and rename, renaming an
// entity to its own name is not a collision, and listings come back sorted
// alphabetically by name.

type DeveloperUsecase struct {
	repo   domain.DeveloperRepository
	logger *zap.Logger
}

func NewDeveloperUsecase(repo domain.DeveloperRepository, logger *zap.Logger) *DeveloperUsecase {
	return &DeveloperUsecase{repo: repo, logger: logger.Named("DeveloperUsecase")}
}

func (uc *DeveloperUsecase) GetAll(ctx context.Context) ([]*domain.Developer, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *DeveloperUsecase) GetByID(ctx context.Context, id string) (*domain.Developer, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *DeveloperUsecase) Create(ctx context.Context, developer *domain.Developer) (*domain.Developer, error) {
	existing, err := uc.repo.FindByName(ctx, developer.Name)
	if err != nil && !errors.Is(err, domain.ErrDeveloperNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}
	created, err := uc.repo.Create(ctx, developer)
	if err != nil {
		uc.logger.Error("failed to create developer", zap.String("name", developer.Name), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("developer created", zap.String("developer_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (uc *DeveloperUsecase) Update(ctx context.Context, id string, update *domain.DeveloperUpdate) (*domain.Developer, error) {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if update.Name != nil {
		other, err := uc.repo.FindByName(ctx, *update.Name)
		if err != nil && !errors.Is(err, domain.ErrDeveloperNotFound) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicateName
		}
	}
	return uc.repo.Update(ctx, id, update)
}

func (uc *DeveloperUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrDeveloperNotFound
	}
	uc.logger.Info("developer deleted", zap.String("developer_id", id))
	return nil
}

type CompoundUsecase struct {
	repo   domain.CompoundRepository
	logger *zap.Logger
}

func NewCompoundUsecase(repo domain.CompoundRepository, logger *zap.Logger) *CompoundUsecase {
	return &CompoundUsecase{repo: repo, logger: logger.Named("CompoundUsecase")}
}

func (uc *CompoundUsecase) GetAll(ctx context.Context) ([]*domain.Compound, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *CompoundUsecase) GetByID(ctx context.Context, id string) (*domain.Compound, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *CompoundUsecase) Create(ctx context.Context, compound *domain.Compound) (*domain.Compound, error) {
	existing, err := uc.repo.FindByName(ctx, compound.Name)
	if err != nil && !errors.Is(err, domain.ErrCompoundNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}
	created, err := uc.repo.Create(ctx, compound)
	if err != nil {
		uc.logger.Error("failed to create compound", zap.String("name", compound.Name), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("compound created", zap.String("compound_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (uc *CompoundUsecase) Update(ctx context.Context, id string, update *domain.CompoundUpdate) (*domain.Compound, error) {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if update.Name != nil {
		other, err := uc.repo.FindByName(ctx, *update.Name)
		if err != nil && !errors.Is(err, domain.ErrCompoundNotFound) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicateName
		}
	}
	return uc.repo.Update(ctx, id, update)
}

func (uc *CompoundUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCompoundNotFound
	}
	uc.logger.Info("compound deleted", zap.String("compound_id", id))
	return nil
}

type AmenityUsecase struct {
	repo   domain.AmenityRepository
	logger *zap.Logger
}

func NewAmenityUsecase(repo domain.AmenityRepository, logger *zap.Logger) *AmenityUsecase {
	return &AmenityUsecase{repo: repo, logger: logger.Named("AmenityUsecase")}
}

func (uc *AmenityUsecase) GetAll(ctx context.Context) ([]*domain.Amenity, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *AmenityUsecase) GetByID(ctx context.Context, id string) (*domain.Amenity, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *AmenityUsecase) Create(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	existing, err := uc.repo.FindByName(ctx, amenity.Name)
	if err != nil && !errors.Is(err, domain.ErrAmenityNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}
	created, err := uc.repo.Create(ctx, amenity)
	if err != nil {
		uc.logger.Error("failed to create amenity", zap.String("name", amenity.Name), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (uc *AmenityUsecase) Update(ctx context.Context, id string, update *domain.AmenityUpdate) (*domain.Amenity, error) {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if update.Name != nil {
		other, err := uc.repo.FindByName(ctx, *update.Name)
		if err != nil && !errors.Is(err, domain.ErrAmenityNotFound) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicateName
		}
	}
	return uc.repo.Update(ctx, id, update)
}

func (uc *AmenityUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrAmenityNotFound
	}
	return nil
}
