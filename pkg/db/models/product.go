package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// Product is the canonical catalog record the resolver maps cart lines onto.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string          `gorm:"column:slug;not null;uniqueIndex"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	MOQ       int             `gorm:"column:moq;not null;default:1"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	Image     *string         `gorm:"column:image"`
	Metadata  types.JSONMap   `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PreorderShipping pulls the preorder shipping note out of the metadata blob.
func (p *Product) PreorderShipping() any {
	if p == nil || p.Metadata == nil {
		return nil
	}
	return p.Metadata["preorder_shipping"]
}
