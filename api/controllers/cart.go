package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/api/middleware"
	"github.com/kofiadjei/sleekline-backend/api/responses"
	"github.com/kofiadjei/sleekline-backend/api/validators"
	cartsvc "github.com/kofiadjei/sleekline-backend/internal/cart"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

// CartFetch returns the session's cart with computed totals.
func CartFetch(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		snapshot, err := store.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem merges one line into the cart; an existing line with the same
// product and variant grows instead of duplicating.
func CartAddItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, _, err := store.Add(r.Context(), sessionID, payload.toItem())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveItem drops a line identified by product and variant.
func CartRemoveItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		var payload cartLineRef
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.Remove(r.Context(), sessionID, payload.ProductID, payload.Variant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartSetQuantity sets a line's quantity directly. The store clamps the value
// to the purchasable range, so out-of-range requests succeed with the clamped
// cart rather than erroring.
func CartSetQuantity(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.SetQuantity(r.Context(), sessionID, payload.ProductID, payload.Quantity, payload.Variant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartApplyCoupon attaches a coupon code to the cart.
func CartApplyCoupon(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.ApplyCoupon(r.Context(), sessionID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveCoupon clears any applied coupon.
func CartRemoveCoupon(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, logg)
		if !ok {
			return
		}

		snapshot, err := store.RemoveCoupon(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

func requireCartSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
		return "", false
	}
	return sessionID, true
}

type addCartItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	Variant     *string         `json:"variant"`
	Image       *string         `json:"image"`
	Slug        string          `json:"slug"`
	MaxStock    int             `json:"max_stock"`
	MinOrderQty int             `json:"min_order_qty"`
}

func (r addCartItemRequest) toItem() cartsvc.Item {
	return cartsvc.Item{
		ProductID:   r.ProductID,
		Name:        r.Name,
		UnitPrice:   r.UnitPrice,
		Quantity:    r.Quantity,
		Variant:     r.Variant,
		Image:       r.Image,
		Slug:        r.Slug,
		MaxStock:    r.MaxStock,
		MinOrderQty: r.MinOrderQty,
	}
}

type cartLineRef struct {
	ProductID string  `json:"product_id" validate:"required"`
	Variant   *string `json:"variant"`
}

type setQuantityRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"min=0"`
	Variant   *string `json:"variant"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type cartResponse struct {
	Items        []cartsvc.Item  `json:"items"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	CouponAmount decimal.Decimal `json:"coupon_amount"`
	Totals       cartsvc.Totals  `json:"totals"`
}

func newCartResponse(snapshot *cartsvc.Snapshot) cartResponse {
	items := snapshot.Items
	if items == nil {
		items = []cartsvc.Item{}
	}
	return cartResponse{
		Items:        items,
		CouponCode:   snapshot.CouponCode,
		CouponAmount: snapshot.CouponAmount,
		Totals:       cartsvc.ComputeTotals(*snapshot),
	}
}
