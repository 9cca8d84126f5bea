package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrProductNotFound = errors.New("product not found")

const (
	categoriesCacheKey = "products:categories"
	productCacheKeyFmt = "products:id:%s"
	productCacheTTL    = 5 * time.Minute
)

// ProductService serves the catalog. Reads go through an optional Redis
// read-through cache; any cache failure degrades to a plain store read and
// never fails the request. Soft-deleted products are invisible through every
// method, including GetByID, so they cannot be ordered after removal.
type ProductService struct {
	store repository.ProductStore
	cache *redis.Client // nil disables caching
}

func NewProductService(store repository.ProductStore, cache *redis.Client) *ProductService {
	return &ProductService{store: store, cache: cache}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

func (s *ProductService) List(ctx context.Context, category string, page, size int) (*ProductPage, error) {
	page, size = clampPage(page, size)
	items, total, err := s.store.Page(ctx, repository.ProductFilter{
		Category: normalizeCategory(category),
		Offset:   (page - 1) * size,
		Limit:    size,
	})
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf(productCacheKeyFmt, id)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var product models.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	s.cacheSet(ctx, key, product)
	return product, nil
}

// Categories returns "all" followed by the distinct active categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.cacheGet(ctx, categoriesCacheKey); ok {
		var categories []string
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
	}

	distinct, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	categories := append([]string{"all"}, distinct...)
	s.cacheSet(ctx, categoriesCacheKey, categories)
	return categories, nil
}

// Search matches the query against product name and description,
// optionally narrowed to one category.
func (s *ProductService) Search(ctx context.Context, q, category string, page, size int) (*ProductPage, error) {
	page, size = clampPage(page, size)
	items, total, err := s.store.Page(ctx, repository.ProductFilter{
		Query:    q,
		Category: normalizeCategory(category),
		Offset:   (page - 1) * size,
		Limit:    size,
	})
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, Size: size}, nil
}

// Save creates or updates a catalog item (admin only) and invalidates the
// affected cache entries.
func (s *ProductService) Save(ctx context.Context, product *models.Product) error {
	if err := s.store.Save(ctx, product); err != nil {
		return err
	}
	s.cacheInvalidate(ctx, categoriesCacheKey, fmt.Sprintf(productCacheKeyFmt, product.ID))
	return nil
}

// Delete soft-deletes a catalog item by flipping is_active off.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.cacheInvalidate(ctx, categoriesCacheKey, fmt.Sprintf(productCacheKeyFmt, id))
	return nil
}

func (s *ProductService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("product cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (s *ProductService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
		slog.Warn("product cache write failed", "key", key, "error", err)
	}
}

func (s *ProductService) cacheInvalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("product cache invalidation failed", "error", err)
	}
}

// normalizeCategory treats the "all" pseudo-category as no filter.
func normalizeCategory(category string) string {
	if category == "all" {
		return ""
	}
	return category
}

func clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
