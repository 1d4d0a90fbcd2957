package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  tracking_number TEXT NOT NULL,
  user_id TEXT,
  email TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  currency TEXT NOT NULL DEFAULT 'GHS',
  subtotal NUMERIC NOT NULL DEFAULT 0,
  tax_total NUMERIC NOT NULL DEFAULT 0,
  shipping_total NUMERIC NOT NULL DEFAULT 0,
  discount_total NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  shipping_method TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT '',
  shipping_address TEXT,
  billing_address TEXT,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  variant_name TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func buildTestOrder(orderNumber string) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		OrderNumber:    orderNumber,
		TrackingNumber: NewTrackingNumber(),
		Email:          "ama@example.com",
		Phone:          "0241234567",
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		Currency:       enums.CurrencyGHS,
		Subtotal:       decimal.NewFromInt(200),
		ShippingTotal:  decimal.NewFromInt(50),
		Total:          decimal.NewFromInt(250),
		ShippingMethod: enums.DeliveryMethodDoorstep,
		PaymentMethod:  enums.PaymentMethodMoolre,
		ShippingAddr: types.ShippingAddress{
			FirstName: "Ama",
			LastName:  "Mensah",
			Email:     "ama@example.com",
			Phone:     "0241234567",
			Address:   "12 Ring Road",
			City:      "Accra",
			Region:    "Greater Accra",
		},
		Metadata: types.JSONMap{"guest_checkout": true},
	}
}

func TestCreateOrderAndFindByRef(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := buildTestOrder(NewOrderNumber(time.Now()))
	created, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	items := []models.OrderItem{
		{
			ID:          uuid.New(),
			OrderID:     created.ID,
			ProductID:   uuid.New(),
			ProductName: "Shea Butter",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(100),
			TotalPrice:  decimal.NewFromInt(200),
		},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	byNumber, err := repo.FindByRef(ctx, created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 1)
	assert.Equal(t, "Shea Butter", byNumber.Items[0].ProductName)

	byID, err := repo.FindByRef(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, byID.OrderNumber)
}

func TestCreateOrderDuplicateNumberConflicts(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := buildTestOrder("ORD-1700000000000-1")
	_, err := repo.CreateOrder(ctx, first)
	require.NoError(t, err)

	dup := buildTestOrder("ORD-1700000000000-1")
	_, err = repo.CreateOrder(ctx, dup)
	require.Error(t, err)
}

func TestFindByRefMissingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByRef(context.Background(), "ORD-does-not-exist")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateItemsEmptyIsNoop(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, repo.CreateItems(context.Background(), nil))
}
