package products

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
)

// RepositoryPort defines data access methods for products.
type RepositoryPort interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id bson.ObjectID) (Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, id bson.ObjectID, in Input) (Record, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Service handles product business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListProducts returns all products.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, len(recs))
	for i, rec := range recs {
		out[i] = rec.toProduct()
	}
	return out, nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return Product{}, err
	}
	rec, err := s.repo.Get(ctx, oid)
	if err != nil {
		return Product{}, err
	}
	return rec.toProduct(), nil
}

// CreateProduct stores a product owned by createdBy.
func (s *Service) CreateProduct(ctx context.Context, in Input, createdBy string) (Product, error) {
	in = normalize(in)
	rec := Record{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Status:      in.Status,
	}
	if owner, err := bson.ObjectIDFromHex(createdBy); err == nil {
		rec.CreatedBy = owner
	}
	rec, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return Product{}, err
	}
	return rec.toProduct(), nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *Service) UpdateProduct(ctx context.Context, id string, in Input) (Product, error) {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return Product{}, err
	}
	rec, err := s.repo.Update(ctx, oid, normalize(in))
	if err != nil {
		return Product{}, err
	}
	return rec.toProduct(), nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	oid, err := platformmongo.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Status == "" {
		in.Status = StatusActive
	}
	return in
}
