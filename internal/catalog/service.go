package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
)

type listingLoader interface {
	productLoader
	ListActive(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Listing is the combined catalog payload read by storefront landing pages.
type Listing struct {
	Categories []string         `json:"categories"`
	Products   []models.Product `json:"products"`
}

// Service exposes catalog reads.
type Service interface {
	Listing(ctx context.Context) (*Listing, error)
	GetProduct(ctx context.Context, ref string) (*models.Product, error)
}

type service struct {
	repo listingLoader
}

// NewService builds a catalog service over the repository.
func NewService(repo listingLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Listing fans the categories and products reads out concurrently.
func (s *service) Listing(ctx context.Context) (*Listing, error) {
	var (
		categories []string
		products   []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.ListActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	return &Listing{Categories: categories, Products: products}, nil
}

// GetProduct resolves a single product by slug or id.
func (s *service) GetProduct(ctx context.Context, ref string) (*models.Product, error) {
	product, err := s.repo.FindBySlugOrID(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
