package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/internal/cart"
	"github.com/kofiadjei/sleekline-backend/internal/catalog"
	"github.com/kofiadjei/sleekline-backend/internal/customers"
	"github.com/kofiadjei/sleekline-backend/internal/notifications"
	"github.com/kofiadjei/sleekline-backend/internal/orders"
	"github.com/kofiadjei/sleekline-backend/internal/payments/moolre"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
	"github.com/kofiadjei/sleekline-backend/pkg/metrics"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

type cartStore interface {
	Get(ctx context.Context, sessionID string) (*cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

type productResolver interface {
	Resolve(ctx context.Context, items []cart.Item) (map[string]catalog.Resolved, error)
}

type orderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
}

type customerWriter interface {
	UpsertFromOrder(ctx context.Context, input customers.UpsertInput) (*models.Customer, error)
}

type notificationDispatcher interface {
	Dispatch(ctx context.Context, msg notifications.Message)
}

type humanVerifier interface {
	Verify(ctx context.Context, token, action string) (bool, error)
}

// SubmitInput is everything the pipeline needs for one checkout attempt.
type SubmitInput struct {
	SessionID         string
	VerificationToken string
	Shipping          types.ShippingAddress
	DeliveryMethod    enums.DeliveryMethod
	PaymentMethod     enums.PaymentMethod
	UserID            *uuid.UUID
}

// SubmitResult is returned on a successfully placed order. RedirectURL is set
// only for the hosted-payment leg.
type SubmitResult struct {
	OrderNumber    string `json:"order_number"`
	TrackingNumber string `json:"tracking_number"`
	RedirectURL    string `json:"redirect_url,omitempty"`
}

// Service runs the order submission pipeline.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

type service struct {
	carts     cartStore
	resolver  productResolver
	orders    orderWriter
	customers customerWriter
	gateway   moolre.Gateway
	notify    notificationDispatcher
	verifier  humanVerifier
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// NewService wires the pipeline's collaborators.
func NewService(
	carts cartStore,
	resolver productResolver,
	orderRepo orderWriter,
	customerRepo customerWriter,
	gateway moolre.Gateway,
	notify notificationDispatcher,
	verifier humanVerifier,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier required")
	}
	return &service{
		carts:     carts,
		resolver:  resolver,
		orders:    orderRepo,
		customers: customerRepo,
		gateway:   gateway,
		notify:    notify,
		verifier:  verifier,
		metrics:   checkoutMetrics,
		logg:      logg,
	}, nil
}

// Submit executes the pipeline strictly in order: verification, cart and
// shipping checks, identifier generation, order insert, item resolution and
// insert, customer upsert, then the payment or notification leg. The steps are
// intentionally not wrapped in a transaction; a failure after the order insert
// leaves a pending order that is reconciled out-of-band.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ok, err := s.verifier.Verify(ctx, input.VerificationToken, "checkout")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verification unavailable")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeVerification, "security verification failed, please try again")
	}

	snapshot, err := s.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if fieldErrs := ValidateShipping(input.Shipping); len(fieldErrs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping information is incomplete").
			WithDetails(map[string]any{"fields": fieldErrs})
	}

	if err := cart.ValidateMOQ(snapshot.Items); err != nil {
		return nil, err
	}

	totals := cart.ComputeTotals(*snapshot)
	now := time.Now()
	orderNumber := orders.NewOrderNumber(now)
	trackingNumber := orders.NewTrackingNumber()

	if s.logg != nil {
		ctx = s.logg.WithOrderNumber(ctx, orderNumber)
	}

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    orderNumber,
		TrackingNumber: trackingNumber,
		UserID:         input.UserID,
		Email:          input.Shipping.Email,
		Phone:          input.Shipping.Phone,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		Currency:       enums.CurrencyGHS,
		Subtotal:       totals.Subtotal,
		ShippingTotal:  totals.Shipping,
		DiscountTotal:  totals.Discount,
		Total:          totals.Total,
		ShippingMethod: input.DeliveryMethod,
		PaymentMethod:  input.PaymentMethod,
		ShippingAddr:   input.Shipping,
		BillingAddr:    input.Shipping,
		Metadata: types.JSONMap{
			"guest_checkout":  input.UserID == nil,
			"first_name":      input.Shipping.FirstName,
			"last_name":       input.Shipping.LastName,
			"tracking_number": trackingNumber,
		},
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to place order")
	}

	resolved, err := s.resolver.Resolve(ctx, snapshot.Items)
	if err != nil {
		// the order row already exists at this point; reconciliation is out-of-band
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		product, ok := resolved[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unresolved cart line %s", line.ProductID))
		}
		metadata := types.JSONMap{"slug": product.Slug}
		if line.Image != nil {
			metadata["image"] = *line.Image
		}
		if product.PreorderShipping != nil {
			metadata["preorder_shipping"] = product.PreorderShipping
		}
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     created.ID,
			ProductID:   product.ID,
			ProductName: line.Name,
			VariantName: line.Variant,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.UnitPrice.Mul(decimalFromInt(line.Quantity)),
			Metadata:    metadata,
		})
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to place order")
	}

	if _, err := s.customers.UpsertFromOrder(ctx, customers.UpsertInput{
		Address: input.Shipping,
		UserID:  input.UserID,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to place order")
	}

	s.metrics.IncOrderPlaced(string(input.PaymentMethod))

	result := &SubmitResult{OrderNumber: orderNumber, TrackingNumber: trackingNumber}

	if input.PaymentMethod == enums.PaymentMethodMoolre {
		started := time.Now()
		resp, err := s.gateway.Initiate(ctx, moolre.InitiationRequest{
			OrderID:       orderNumber,
			Amount:        totals.Total,
			CustomerEmail: input.Shipping.Email,
		})
		if err != nil {
			s.metrics.ObserveGateway("error", time.Since(started))
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment initiation failed")
		}
		if !resp.Success {
			s.metrics.ObserveGateway("declined", time.Since(started))
			message := resp.Message
			if message == "" {
				message = "payment initiation failed"
			}
			// cart is kept so the shopper can retry; order stays pending/pending
			return nil, pkgerrors.New(pkgerrors.CodeDependency, message)
		}
		s.metrics.ObserveGateway("success", time.Since(started))

		s.clearCart(ctx, input.SessionID)
		result.RedirectURL = resp.URL
		return result, nil
	}

	// non-gateway path: best-effort notification, then straight to success
	s.notify.Dispatch(ctx, notifications.Message{
		Type: enums.NotificationOrderCreated,
		Payload: map[string]any{
			"order_number":    orderNumber,
			"tracking_number": trackingNumber,
			"email":           input.Shipping.Email,
			"total":           totals.Total,
			"payment_method":  string(input.PaymentMethod),
		},
	})
	s.clearCart(ctx, input.SessionID)
	return result, nil
}

// clearCart empties the session after a placed order. A failure here is logged
// only; the order already exists and must not be rolled back over a stale cart.
func (s *service) clearCart(ctx context.Context, sessionID string) {
	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart clear failed after order placement", err)
	}
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
