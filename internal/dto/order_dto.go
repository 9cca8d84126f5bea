package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	Items               []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress     string             `json:"delivery_address" validate:"required"`
	DeliveryDate        *time.Time         `json:"delivery_date"`
	PaymentMethod       string             `json:"payment_method" validate:"omitempty,oneof=cash_on_delivery card"`
	SpecialInstructions string             `json:"special_instructions"`
}

type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED DELIVERING DELIVERED CANCELLED"`
}

type OrderTrackingResponse struct {
	OrderID      uuid.UUID  `json:"order_id"`
	Status       string     `json:"status"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
