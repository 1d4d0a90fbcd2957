package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/api/responses"
	"github.com/kofiadjei/sleekline-backend/api/validators"
	catalogsvc "github.com/kofiadjei/sleekline-backend/internal/catalog"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

// ProductList returns the storefront listing: active products plus the
// distinct category set, loaded concurrently.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Listing(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if limit > 0 && len(listing.Products) > limit {
			listing.Products = listing.Products[:limit]
		}

		products := make([]productResponse, 0, len(listing.Products))
		for i := range listing.Products {
			products = append(products, newProductResponse(&listing.Products[i]))
		}

		responses.WriteSuccess(w, listingResponse{
			Categories: listing.Categories,
			Products:   products,
		})
	}
}

// ProductDetail fetches one product by slug or id.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "productRef")
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product reference required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

type listingResponse struct {
	Categories []string          `json:"categories"`
	Products   []productResponse `json:"products"`
}

type productResponse struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	MOQ       int             `json:"moq"`
	IsActive  bool            `json:"is_active"`
	Image     *string         `json:"image,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:        product.ID,
		Slug:      product.Slug,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Stock:     product.Stock,
		MOQ:       product.MOQ,
		IsActive:  product.IsActive,
		Image:     product.Image,
		Metadata:  product.Metadata,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
