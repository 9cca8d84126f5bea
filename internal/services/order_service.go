package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotCancelled = errors.New("only pending orders can be cancelled")
	ErrEmptyOrder        = errors.New("order has no items")
)

// OrderService places and tracks delivery orders. Line items are priced
// from the current catalog at checkout and frozen into the order record;
// soft-deleted products fail the checkout because the catalog no longer
// resolves them.
type OrderService struct {
	store    repository.OrderStore
	products *ProductService
}

func NewOrderService(store repository.OrderStore, products *ProductService) *OrderService {
	return &OrderService{store: store, products: products}
}

func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var (
		lines []models.OrderItem
		total float64
	)
	for _, line := range req.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash_on_delivery"
	}

	order := &models.Order{
		UserID:              userID,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryDate:        req.DeliveryDate,
		Status:              models.OrderPending,
		TotalAmount:         total,
		PaymentMethod:       paymentMethod,
		PaymentStatus:       models.PaymentPending,
		SpecialInstructions: req.SpecialInstructions,
		Items:               datatypes.JSON(itemsJSON),
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// GetByID returns an order visible to the caller: its owner, or any caller
// with an elevated role. A foreign order reads as not found so the response
// does not confirm its existence.
func (s *OrderService) GetByID(ctx context.Context, id, userID uuid.UUID, elevated bool) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !elevated && order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Cancel cancels a pending order owned by the caller.
func (s *OrderService) Cancel(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetByID(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, ErrOrderNotCancelled
	}

	order.Status = models.OrderCancelled
	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Track returns the delivery status of an order owned by the caller.
func (s *OrderService) Track(ctx context.Context, id, userID uuid.UUID, elevated bool) (*dto.OrderTrackingResponse, error) {
	order, err := s.GetByID(ctx, id, userID, elevated)
	if err != nil {
		return nil, err
	}
	return &dto.OrderTrackingResponse{
		OrderID:      order.ID,
		Status:       string(order.Status),
		DeliveryDate: order.DeliveryDate,
		UpdatedAt:    order.UpdatedAt,
	}, nil
}

// UpdateStatus moves an order to a new status (driver and admin only).
// Delivery settles a pending payment.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if status == models.OrderDelivered {
		order.PaymentStatus = models.PaymentPaid
	}
	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
