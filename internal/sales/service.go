package sales

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
	"github.com/odyssey-erp/odyssey-admin/internal/products"
)

// RepositoryPort defines data access methods for sales.
type RepositoryPort interface {
	List(ctx context.Context) ([]Sale, error)
	Get(ctx context.Context, id bson.ObjectID) (Sale, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// ProductLookup resolves the product being sold.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (products.Product, error)
}

// Service provides business logic for sales operations.
type Service struct {
	repo     RepositoryPort
	products ProductLookup
}

// NewService constructs a sales service.
func NewService(repo RepositoryPort, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

// ListSales returns every sale.
func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

// GetSale returns one sale.
func (s *Service) GetSale(ctx context.Context, id string) (Sale, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return Sale{}, err
	}
	return s.repo.Get(ctx, oid)
}

// CreateSale records a completed sale at the product's current price.
func (s *Service) CreateSale(ctx context.Context, in CreateInput, soldBy string) (Sale, error) {
	product, err := s.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return Sale{}, err
	}
	productID, err := platformmongo.ParseID(product.ID)
	if err != nil {
		return Sale{}, err
	}
	customer := strings.TrimSpace(in.Customer)
	if customer == "" {
		customer = DefaultCustomer
	}
	rec := Record{
		Product:     productID,
		Quantity:    in.Quantity,
		Price:       product.Price,
		TotalAmount: product.Price * float64(in.Quantity),
		Customer:    customer,
		Status:      StatusCompleted,
	}
	if seller, err := bson.ObjectIDFromHex(soldBy); err == nil {
		rec.SoldBy = seller
	}
	rec, err = s.repo.Insert(ctx, rec)
	if err != nil {
		return Sale{}, err
	}
	return s.repo.Get(ctx, rec.ID)
}

// DeleteSale removes a sale.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}
