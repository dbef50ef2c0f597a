package products

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// Status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ErrProductNotFound is returned when no product matches the id.
var ErrProductNotFound = httpx.NewError(httpx.ErrNotFound, "Product not found")

// Record is a stored product document.
type Record struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Price       float64       `bson:"price"`
	Category    string        `bson:"category"`
	Stock       int           `bson:"stock"`
	Status      string        `bson:"status"`
	CreatedBy   bson.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

// Product is the API view of a product.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the body of product create and update requests.
type Input struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=100"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r Record) toProduct() Product {
	p := Product{
		ID:          r.ID.Hex(),
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if !r.CreatedBy.IsZero() {
		p.CreatedBy = r.CreatedBy.Hex()
	}
	return p
}
