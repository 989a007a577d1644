package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a single catalog record. The ID is assigned at creation and never
// reused; CreatedAt/UpdatedAt are stamped by the service, never by callers.
type Product struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	ImagePath   string    `json:"imagePath,omitempty" bson:"image_path,omitempty"`
	ContentType string    `json:"contentType,omitempty" bson:"content_type,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// ProductPatch enumerates the caller-updatable fields of a product. Nil means
// "leave unchanged"; ID and timestamps are not patchable.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	Category    *string
}

// Apply merges the patch over an existing record.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
}

// Empty reports whether the patch carries no fields at all.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Category == nil
}
