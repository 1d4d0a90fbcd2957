package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kofiadjei/sleekline-backend/internal/cart"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
)

type productLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	FindBySlugOrID(ctx context.Context, ref string) (*models.Product, error)
}

// Resolved carries the canonical product data an order item needs.
type Resolved struct {
	ID               uuid.UUID
	Name             string
	Slug             string
	PreorderShipping any
}

// Resolver maps cart line references (UUID or slug) to canonical products.
type Resolver interface {
	Resolve(ctx context.Context, items []cart.Item) (map[string]Resolved, error)
}

type resolver struct {
	loader productLoader
}

// NewResolver builds a resolver backed by the catalog repository.
func NewResolver(loader productLoader) (Resolver, error) {
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &resolver{loader: loader}, nil
}

// Resolve partitions lines into UUID references and slugs, batch-fetches the
// UUID set in one query and looks slugs up individually. The first reference
// that fails aborts the whole resolution, naming the offending product.
func (r *resolver) Resolve(ctx context.Context, items []cart.Item) (map[string]Resolved, error) {
	resolved := make(map[string]Resolved, len(items))

	var uuidRefs []uuid.UUID
	uuidNames := map[uuid.UUID]string{}
	var slugItems []cart.Item

	for _, item := range items {
		if id, err := uuid.Parse(item.ProductID); err == nil {
			uuidRefs = append(uuidRefs, id)
			uuidNames[id] = item.Name
		} else {
			slugItems = append(slugItems, item)
		}
	}

	if len(uuidRefs) > 0 {
		products, err := r.loader.FindByIDs(ctx, uuidRefs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		byID := map[uuid.UUID]models.Product{}
		for _, product := range products {
			byID[product.ID] = product
		}
		for _, id := range uuidRefs {
			product, ok := byID[id]
			if !ok {
				return nil, notFound(uuidNames[id])
			}
			resolved[id.String()] = toResolved(product)
		}
	}

	for _, item := range slugItems {
		product, err := r.loader.FindBySlugOrID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound(item.Name)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		resolved[item.ProductID] = toResolved(*product)
	}

	return resolved, nil
}

func toResolved(product models.Product) Resolved {
	return Resolved{
		ID:               product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		PreorderShipping: product.PreorderShipping(),
	}
}

func notFound(name string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound,
		fmt.Sprintf("Product not found: %s. Please remove it from your cart and try again.", name))
}
