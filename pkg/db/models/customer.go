package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// Customer aggregates guest and account buyers, upserted from each order.
// Email is the upsert key; phone is kept current on every order.
type Customer struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string                `gorm:"column:email;not null;uniqueIndex"`
	Phone       string                `gorm:"column:phone"`
	FullName    string                `gorm:"column:full_name"`
	FirstName   string                `gorm:"column:first_name"`
	LastName    string                `gorm:"column:last_name"`
	UserID      *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	Address     types.ShippingAddress `gorm:"column:address;type:jsonb;serializer:json"`
	OrdersCount int                   `gorm:"column:orders_count;not null;default:0"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
