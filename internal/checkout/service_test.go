package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiadjei/sleekline-backend/internal/cart"
	"github.com/kofiadjei/sleekline-backend/internal/catalog"
	"github.com/kofiadjei/sleekline-backend/internal/customers"
	"github.com/kofiadjei/sleekline-backend/internal/notifications"
	"github.com/kofiadjei/sleekline-backend/internal/payments/moolre"
	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
)

type stubCarts struct {
	snapshot cart.Snapshot
	cleared  []string
}

func (s *stubCarts) Get(_ context.Context, _ string) (*cart.Snapshot, error) {
	snap := s.snapshot
	return &snap, nil
}

func (s *stubCarts) Clear(_ context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

type stubResolver struct {
	resolved map[string]catalog.Resolved
	err      error
}

func (s *stubResolver) Resolve(_ context.Context, _ []cart.Item) (map[string]catalog.Resolved, error) {
	return s.resolved, s.err
}

type stubOrders struct {
	created   *models.Order
	items     []models.OrderItem
	createErr error
}

func (s *stubOrders) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = order
	return order, nil
}

func (s *stubOrders) CreateItems(_ context.Context, items []models.OrderItem) error {
	s.items = items
	return nil
}

type stubCustomers struct{ upserts []customers.UpsertInput }

func (s *stubCustomers) UpsertFromOrder(_ context.Context, input customers.UpsertInput) (*models.Customer, error) {
	s.upserts = append(s.upserts, input)
	return &models.Customer{Email: input.Address.Email}, nil
}

type stubGateway struct {
	resp  moolre.InitiationResponse
	err   error
	calls int
	last  moolre.InitiationRequest
}

func (s *stubGateway) Initiate(_ context.Context, req moolre.InitiationRequest) (*moolre.InitiationResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	resp := s.resp
	return &resp, nil
}

type stubNotify struct{ messages []notifications.Message }

func (s *stubNotify) Dispatch(_ context.Context, msg notifications.Message) {
	s.messages = append(s.messages, msg)
}

type stubVerifier struct {
	ok  bool
	err error
}

func (s *stubVerifier) Verify(_ context.Context, _, _ string) (bool, error) {
	return s.ok, s.err
}

type pipelineFixture struct {
	carts     *stubCarts
	resolver  *stubResolver
	orders    *stubOrders
	customers *stubCustomers
	gateway   *stubGateway
	notify    *stubNotify
	verifier  *stubVerifier
	svc       Service
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	productID := uuid.New()
	f := &pipelineFixture{
		carts: &stubCarts{snapshot: cart.Snapshot{Items: []cart.Item{{
			ProductID: productID.String(),
			Name:      "Shea Body Butter",
			UnitPrice: decimal.NewFromInt(100),
			Quantity:  2,
			Slug:      "shea-body-butter",
			MaxStock:  10,
		}}}},
		resolver: &stubResolver{resolved: map[string]catalog.Resolved{
			productID.String(): {ID: productID, Name: "Shea Body Butter", Slug: "shea-body-butter"},
		}},
		orders:    &stubOrders{},
		customers: &stubCustomers{},
		gateway:   &stubGateway{resp: moolre.InitiationResponse{Success: true, URL: "https://pay.moolre.test/abc"}},
		notify:    &stubNotify{},
		verifier:  &stubVerifier{ok: true},
	}

	svc, err := NewService(f.carts, f.resolver, f.orders, f.customers, f.gateway, f.notify, f.verifier, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func submitInput() SubmitInput {
	return SubmitInput{
		SessionID:         "sess-1",
		VerificationToken: "token",
		Shipping:          validShipping(),
		DeliveryMethod:    enums.DeliveryMethodDoorstep,
		PaymentMethod:     enums.PaymentMethodMoolre,
	}
}

func TestSubmitSuccessClearsCartAndReturnsRedirect(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := f.svc.Submit(context.Background(), submitInput())
	require.NoError(t, err)

	assert.Equal(t, "https://pay.moolre.test/abc", result.RedirectURL)
	assert.NotEmpty(t, result.OrderNumber)
	assert.NotEmpty(t, result.TrackingNumber)
	assert.Equal(t, []string{"sess-1"}, f.carts.cleared)

	require.NotNil(t, f.orders.created)
	assert.Equal(t, enums.OrderStatusPending, f.orders.created.Status)
	assert.Equal(t, enums.PaymentStatusPending, f.orders.created.PaymentStatus)
	assert.Equal(t, enums.CurrencyGHS, f.orders.created.Currency)
	// 2 x 100 subtotal, flat shipping below the free threshold
	assert.True(t, f.orders.created.Total.Equal(decimal.NewFromInt(250)), f.orders.created.Total.String())

	require.Len(t, f.orders.items, 1)
	assert.True(t, f.orders.items[0].TotalPrice.Equal(decimal.NewFromInt(200)))

	assert.Equal(t, f.orders.created.OrderNumber, f.gateway.last.OrderID)
	assert.True(t, f.gateway.last.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "ama@example.com", f.gateway.last.CustomerEmail)

	require.Len(t, f.customers.upserts, 1)
}

func TestSubmitDeclineKeepsCartAndOrder(t *testing.T) {
	f := newPipelineFixture(t)
	f.gateway.resp = moolre.InitiationResponse{Success: false, Message: "payment was declined"}

	_, err := f.svc.Submit(context.Background(), submitInput())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, "payment was declined", typed.Message())

	assert.NotNil(t, f.orders.created, "order is persisted before the payment leg")
	assert.Empty(t, f.carts.cleared, "cart survives a declined payment")
}

func TestSubmitGatewayTransportError(t *testing.T) {
	f := newPipelineFixture(t)
	f.gateway.err = errors.New("connection refused")

	_, err := f.svc.Submit(context.Background(), submitInput())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Empty(t, f.carts.cleared)
}

func TestSubmitCashOnDeliveryDispatchesNotification(t *testing.T) {
	f := newPipelineFixture(t)
	input := submitInput()
	input.PaymentMethod = enums.PaymentMethodCOD

	result, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)

	assert.Empty(t, result.RedirectURL)
	assert.Zero(t, f.gateway.calls, "gateway is never touched for cash on delivery")
	assert.Equal(t, []string{"sess-1"}, f.carts.cleared)

	require.Len(t, f.notify.messages, 1)
	assert.Equal(t, enums.NotificationOrderCreated, f.notify.messages[0].Type)
	assert.Equal(t, result.OrderNumber, f.notify.messages[0].Payload["order_number"])
}

func TestSubmitVerificationFailureAbortsBeforePersistence(t *testing.T) {
	f := newPipelineFixture(t)
	f.verifier.ok = false

	_, err := f.svc.Submit(context.Background(), submitInput())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeVerification, typed.Code())
	assert.Nil(t, f.orders.created, "nothing is written when verification fails")
	assert.Empty(t, f.customers.upserts)
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	f := newPipelineFixture(t)
	f.carts.snapshot = cart.Snapshot{}

	_, err := f.svc.Submit(context.Background(), submitInput())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "cart is empty", typed.Message())
}

func TestSubmitIncompleteShippingRejected(t *testing.T) {
	f := newPipelineFixture(t)
	input := submitInput()
	input.Shipping.Region = ""

	_, err := f.svc.Submit(context.Background(), input)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Nil(t, f.orders.created)
}

func TestSubmitUnresolvedProductNamesIt(t *testing.T) {
	f := newPipelineFixture(t)
	f.resolver.resolved = nil
	f.resolver.err = pkgerrors.New(pkgerrors.CodeNotFound,
		"Product not found: Shea Body Butter. Please remove it from your cart and try again.")

	_, err := f.svc.Submit(context.Background(), submitInput())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Contains(t, typed.Message(), "Shea Body Butter")
	assert.Empty(t, f.carts.cleared)
}
