package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/redis/go-redis/v9"
)

const apartmentTTL = 1 * time.Hour

// ApartmentCache keeps expanded apartments under "apartment:<id>". Writers
// invalidate rather than refresh, so a stale hit lives at most one TTL.
type ApartmentCache struct {
	client *redis.Client
}

func NewApartmentCache(addr string) (*ApartmentCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ApartmentCache{client: client}, nil
}

// GetApartment returns (nil, nil) on a cache miss.
func (c *ApartmentCache) GetApartment(ctx context.Context, id string) (*domain.Apartment, error) {
	data, err := c.client.Get(ctx, "apartment:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var apartment domain.Apartment
	if err := json.Unmarshal(data, &apartment); err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (c *ApartmentCache) SetApartment(ctx context.Context, apartment *domain.Apartment) error {
	data, err := json.Marshal(apartment)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "apartment:"+apartment.ID, data, apartmentTTL).Err()
}

func (c *ApartmentCache) DeleteApartment(ctx context.Context, id string) error {
	return c.client.Del(ctx, "apartment:"+id).Err()
}

func (c *ApartmentCache) Close() error {
	return c.client.Close()
}
