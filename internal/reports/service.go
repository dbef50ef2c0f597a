package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-admin/internal/products"
)

// RepositoryPort exposes the report queries.
type RepositoryPort interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context, status string) (int64, error)
	UserReport(ctx context.Context) ([]UserRow, error)
	ProductReport(ctx context.Context) ([]ProductRow, error)
}

// Service builds reports.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService wires a repository with an optional cache.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Dashboard runs the headline counts concurrently.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	err := s.cache.FetchJSON(ctx, "dashboard", &out, func(ctx context.Context) (any, error) {
		return s.loadDashboard(ctx)
	})
	return out, err
}

func (s *Service) loadDashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalUsers, err = s.repo.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalProducts, err = s.repo.CountProducts(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		d.ActiveProducts, err = s.repo.CountProducts(ctx, products.StatusActive)
		return err
	})
	g.Go(func() (err error) {
		d.InactiveProducts, err = s.repo.CountProducts(ctx, products.StatusInactive)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	d.Timestamp = s.now().UTC()
	return d, nil
}

// Users returns the user report.
func (s *Service) Users(ctx context.Context) ([]UserRow, error) {
	return s.repo.UserReport(ctx)
}

// Products returns the product report.
func (s *Service) Products(ctx context.Context) ([]ProductRow, error) {
	return s.repo.ProductReport(ctx)
}
