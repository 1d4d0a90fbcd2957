package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kofiadjei/sleekline-backend/pkg/db/models"
	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// Repository maintains the customer roster built up from order submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertInput carries the shipping data folded into the customer record.
type UpsertInput struct {
	Address types.ShippingAddress
	UserID  *uuid.UUID
}

// UpsertFromOrder creates or refreshes the customer keyed by email. Phone,
// names and address are kept current on every order and orders_count grows by
// one per submission.
func (r *Repository) UpsertFromOrder(ctx context.Context, input UpsertInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Address.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	customer := models.Customer{
		ID:          uuid.New(),
		Email:       email,
		Phone:       input.Address.Phone,
		FullName:    input.Address.FullName(),
		FirstName:   input.Address.FirstName,
		LastName:    input.Address.LastName,
		UserID:      input.UserID,
		Address:     input.Address,
		OrdersCount: 1,
	}

	// raw assignment values bypass the model serializer, so the address is
	// marshalled explicitly for the conflict branch
	addressJSON, err := json.Marshal(input.Address)
	if err != nil {
		return nil, fmt.Errorf("marshal customer address: %w", err)
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"phone":        customer.Phone,
			"full_name":    customer.FullName,
			"first_name":   customer.FirstName,
			"last_name":    customer.LastName,
			"user_id":      customer.UserID,
			"address":      string(addressJSON),
			"orders_count": gorm.Expr("orders_count + 1"),
		}),
	}).Create(&customer).Error
	if err != nil {
		return nil, err
	}

	var saved models.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// FindByEmail loads a customer record.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
