package sales

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// Status values.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// DefaultCustomer is recorded when a sale names no customer.
const DefaultCustomer = "Walk-in Customer"

// ErrSaleNotFound is returned when no sale matches the id.
var ErrSaleNotFound = httpx.NewError(httpx.ErrNotFound, "Sale not found")

// Record is a stored sale document.
type Record struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Product     bson.ObjectID `bson:"product"`
	Quantity    int           `bson:"quantity"`
	Price       float64       `bson:"price"`
	TotalAmount float64       `bson:"totalAmount"`
	Customer    string        `bson:"customer"`
	SoldBy      bson.ObjectID `bson:"soldBy,omitempty"`
	Status      string        `bson:"status"`
	CreatedAt   time.Time     `bson:"createdAt"`
}

// ProductRef is the product summary embedded in a sale view.
type ProductRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SellerRef is the seller summary embedded in a sale view.
type SellerRef struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Sale is the API view of a sale with its references resolved. Product and
// SoldBy are nil when the referenced document no longer exists.
type Sale struct {
	ID          string      `json:"id"`
	Product     *ProductRef `json:"product"`
	Quantity    int         `json:"quantity"`
	Price       float64     `json:"price"`
	TotalAmount float64     `json:"totalAmount"`
	Customer    string      `json:"customer"`
	SoldBy      *SellerRef  `json:"soldBy"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// CreateInput is the body of a sale create request.
type CreateInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Customer  string `json:"customer" validate:"max=200"`
}

type productDoc struct {
	ID    bson.ObjectID `bson:"_id"`
	Name  string        `bson:"name"`
	Price float64       `bson:"price"`
}

type sellerDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	Email    string        `bson:"email"`
	Username string        `bson:"username"`
}

// resolvedDoc is a sale after the product and seller lookups.
type resolvedDoc struct {
	Record     `bson:",inline"`
	ProductDoc *productDoc `bson:"product_doc"`
	SellerDoc  *sellerDoc  `bson:"seller_doc"`
}

func (d resolvedDoc) toSale() Sale {
	s := Sale{
		ID:          d.ID.Hex(),
		Quantity:    d.Quantity,
		Price:       d.Price,
		TotalAmount: d.TotalAmount,
		Customer:    d.Customer,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
	if d.ProductDoc != nil {
		s.Product = &ProductRef{ID: d.ProductDoc.ID.Hex(), Name: d.ProductDoc.Name, Price: d.ProductDoc.Price}
	}
	if d.SellerDoc != nil {
		s.SoldBy = &SellerRef{ID: d.SellerDoc.ID.Hex(), Email: d.SellerDoc.Email, Username: d.SellerDoc.Username}
	}
	return s
}
