package model

import (
	"time"
)

// Product is a catalog entry. OfferPrice is the price the cart engine
// charges; Price is the list price shown struck through.
type Product struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `gorm:"index" json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	OfferPrice  float64   `gorm:"not null" json:"offer_price"`
	ImageURL    string    `json:"image_url,omitempty"`
	InStock     bool      `gorm:"not null;default:true" json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
