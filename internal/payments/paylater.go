package payments

import (
	"context"
	"fmt"

	"github.com/kofiadjei/sleekline-backend/internal/payments/moolre"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

type orderFinder interface {
	FindByRef(ctx context.Context, ref string) (*models.Order, error)
}

// PayLaterResult tells the caller whether to show success or redirect to the
// processor for an outstanding balance.
type PayLaterResult struct {
	Paid        bool   `json:"paid"`
	OrderNumber string `json:"order_number"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// PayLaterService re-drives payment for an existing order. This backs the
// standalone "pay now" page a shopper lands on after an abandoned or declined
// payment attempt.
type PayLaterService interface {
	Resume(ctx context.Context, orderRef string) (*PayLaterResult, error)
}

type payLaterService struct {
	orders  orderFinder
	gateway moolre.Gateway
	logg    *logger.Logger
}

// NewPayLaterService wires the order lookup to the payment gateway.
func NewPayLaterService(orders orderFinder, gateway moolre.Gateway, logg *logger.Logger) (PayLaterService, error) {
	if orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &payLaterService{orders: orders, gateway: gateway, logg: logg}, nil
}

// Resume fetches the order and, when payment is still outstanding, requests a
// fresh redirect session. Re-invocation is safe: initiation never mutates
// order state.
func (s *payLaterService) Resume(ctx context.Context, orderRef string) (*PayLaterResult, error) {
	order, err := s.orders.FindByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	}

	if order.PaymentStatus == enums.PaymentStatusPaid {
		return &PayLaterResult{Paid: true, OrderNumber: order.OrderNumber}, nil
	}

	resp, err := s.gateway.Initiate(ctx, moolre.InitiationRequest{
		OrderID:       order.OrderNumber,
		Amount:        order.Total,
		CustomerEmail: order.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment initiation failed")
	}
	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "payment initiation failed"
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, message)
	}

	return &PayLaterResult{
		Paid:        false,
		OrderNumber: order.OrderNumber,
		RedirectURL: resp.URL,
	}, nil
}
