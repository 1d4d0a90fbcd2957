package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// Order is one checkout attempt. Identifiers are generated before insert and
// only probabilistically unique; the unique index on order_number backstops
// the rare collision with a conflict instead of a silent duplicate.
type Order struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string                `gorm:"column:order_number;not null;uniqueIndex"`
	TrackingNumber string                `gorm:"column:tracking_number;not null"`
	UserID         *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	Email          string                `gorm:"column:email;not null"`
	Phone          string                `gorm:"column:phone;not null"`
	Status         enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus   `gorm:"column:payment_status;not null;default:'pending'"`
	Currency       enums.Currency        `gorm:"column:currency;not null;default:'GHS'"`
	Subtotal       decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxTotal       decimal.Decimal       `gorm:"column:tax_total;type:numeric(12,2);not null"`
	ShippingTotal  decimal.Decimal       `gorm:"column:shipping_total;type:numeric(12,2);not null"`
	DiscountTotal  decimal.Decimal       `gorm:"column:discount_total;type:numeric(12,2);not null"`
	Total          decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingMethod enums.DeliveryMethod  `gorm:"column:shipping_method;not null"`
	PaymentMethod  enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	ShippingAddr   types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddr    types.ShippingAddress `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Metadata       types.JSONMap         `gorm:"column:metadata;type:jsonb;serializer:json"`
	Items          []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
