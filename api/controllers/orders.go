package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/api/responses"
	"github.com/kofiadjei/sleekline-backend/internal/orders"
	"github.com/kofiadjei/sleekline-backend/internal/payments"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// OrderDetail looks an order up by id or order number, items included.
func OrderDetail(repo *orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "orderRef")
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference required"))
			return
		}

		order, err := repo.FindByRef(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderPay resumes payment for an order placed without completing it. An
// already-paid order short-circuits; an outstanding one gets a fresh payment
// link.
func OrderPay(svc payments.PayLaterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "orderRef")
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference required"))
			return
		}

		result, err := svc.Resume(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type orderResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrderNumber    string                `json:"order_number"`
	TrackingNumber string                `json:"tracking_number"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	Status         string                `json:"status"`
	PaymentStatus  string                `json:"payment_status"`
	Currency       string                `json:"currency"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	ShippingTotal  decimal.Decimal       `json:"shipping_total"`
	DiscountTotal  decimal.Decimal       `json:"discount_total"`
	Total          decimal.Decimal       `json:"total"`
	ShippingMethod string                `json:"shipping_method"`
	PaymentMethod  string                `json:"payment_method"`
	ShippingAddr   types.ShippingAddress `json:"shipping_address"`
	Items          []orderItemResponse   `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
}

type orderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantName *string         `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			Metadata:    item.Metadata,
		})
	}

	return orderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		TrackingNumber: order.TrackingNumber,
		Email:          order.Email,
		Phone:          order.Phone,
		Status:         string(order.Status),
		PaymentStatus:  string(order.PaymentStatus),
		Currency:       string(order.Currency),
		Subtotal:       order.Subtotal,
		ShippingTotal:  order.ShippingTotal,
		DiscountTotal:  order.DiscountTotal,
		Total:          order.Total,
		ShippingMethod: string(order.ShippingMethod),
		PaymentMethod:  string(order.PaymentMethod),
		ShippingAddr:   order.ShippingAddr,
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
