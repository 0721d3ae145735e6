package sandbox

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-client/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService serves the read-only product routes.
type CatalogService struct {
	repo *Repository
	logg *logger.Logger
}

func NewCatalogService(repo *Repository, logg *logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, logg: logg}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Seed inserts the demo catalog into an empty products table.
func (s *CatalogService) Seed(ctx context.Context) error {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if count > 0 {
		return nil
	}
	if err := s.repo.CreateProducts(ctx, seedProducts()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed products")
	}
	s.logg.Info(s.logg.WithField(ctx, "products", len(seedProducts())), "sandbox.catalog_seeded")
	return nil
}

func seedProducts() []models.Product {
	return []models.Product{
		{Title: "Camiseta básica", Description: "Algodão, várias cores", Price: decimal.RequireFromString("19.90"), Quantity: 50, Photos: []string{"https://images.example/camiseta.webp"}},
		{Title: "Caneca esmaltada", Description: "350 ml", Price: decimal.RequireFromString("20.00"), Quantity: 20, Photos: []string{}},
		{Title: "Mochila urbana", Description: "Compartimento para notebook", Price: decimal.RequireFromString("149.90"), Quantity: 5, Photos: []string{}},
		{Title: "Boné aba curva", Description: "Ajustável", Price: decimal.RequireFromString("39.50"), Quantity: 0, Photos: []string{}},
	}
}
