package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/freshtrio/backend/internal/models"
	"github.com/google/uuid"
)

// MemoryProductStore is an in-memory ProductStore mirroring the PostgreSQL
// store's semantics: Page and Categories see only active products, FindByID
// sees everything. Used by tests and local development without a database.
type MemoryProductStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{items: make(map[uuid.UUID]*models.Product)}
}

func (s *MemoryProductStore) Page(_ context.Context, f ProductFilter) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Product
	q := strings.ToLower(f.Query)
	for _, p := range s.items {
		if !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryProductStore) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	for _, p := range s.items {
		if p.IsActive && p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *MemoryProductStore) Save(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
		product.CreatedAt = time.Now().UTC()
	}
	product.UpdatedAt = time.Now().UTC()
	cp := *product
	s.items[cp.ID] = &cp
	return nil
}

func (s *MemoryProductStore) Deactivate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MemoryOrderStore is the in-memory OrderStore counterpart.
type MemoryOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *MemoryOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	cp := *order
	s.orders[cp.ID] = &cp
	return nil
}

func (s *MemoryOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryOrderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryOrderStore) Save(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.UpdatedAt = time.Now().UTC()
	cp := *order
	s.orders[cp.ID] = &cp
	return nil
}
