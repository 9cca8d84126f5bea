package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderDelivering OrderStatus = "DELIVERING"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Order holds a delivery order. Line items are denormalized into a JSONB
// column so the order keeps the name and price each item had at checkout,
// regardless of later catalog edits.
type Order struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DeliveryAddress     string         `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryDate        *time.Time     `json:"delivery_date,omitempty"`
	Status              OrderStatus    `gorm:"size:20;default:'PENDING';index" json:"status"`
	TotalAmount         float64        `gorm:"type:numeric(10,2)" json:"total_amount"`
	PaymentMethod       string         `gorm:"size:50;default:'cash_on_delivery'" json:"payment_method"`
	PaymentStatus       PaymentStatus  `gorm:"size:20;default:'PENDING'" json:"payment_status"`
	SpecialInstructions string         `gorm:"type:text" json:"special_instructions,omitempty"`
	Items               datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"items"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// OrderItem is the shape serialized into Order.Items.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}
