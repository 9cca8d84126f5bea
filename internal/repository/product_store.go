package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshtrio/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows one catalog page. Query matches name or description
// case-insensitively when non-empty; Category narrows to one category.
// Only active products are returned.
type ProductFilter struct {
	Query    string
	Category string
	Offset   int
	Limit    int
}

// ProductStore persists catalog items. FindByID returns soft-deleted rows
// too; visibility filtering is the service's job.
type ProductStore interface {
	Page(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Save(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type GormProductStore struct {
	db *gorm.DB
}

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) Page(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = true")
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var items []models.Product
	if err := query.Order("name").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return items, total, nil
}

func (s *GormProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (s *GormProductStore) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = true AND category <> ''").
		Distinct("category").Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *GormProductStore) Save(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *GormProductStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
