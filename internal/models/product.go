package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Deletion is soft: admins flip IsActive off and
// all customer-facing queries filter on it.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Price       float64   `gorm:"type:numeric(10,2)" json:"price"`
	Unit        string    `gorm:"size:20" json:"unit"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
