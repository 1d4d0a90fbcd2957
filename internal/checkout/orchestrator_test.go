package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

func validShipping() types.ShippingAddress {
	return types.ShippingAddress{
		FirstName: "Ama",
		LastName:  "Mensah",
		Email:     "ama@example.com",
		Phone:     "0241234567",
		Address:   "12 Ring Road",
		City:      "Accra",
		Region:    "Greater Accra",
	}
}

func TestAdvanceBlockedUntilShippingComplete(t *testing.T) {
	state := NewState("").ApplyShipping(types.ShippingAddress{FirstName: "Ama"})

	state = state.AdvanceToDelivery()
	assert.Equal(t, StepShipping, state.Step)
	assert.Contains(t, state.Errors, "last_name")
	assert.Contains(t, state.Errors, "email")
	assert.Contains(t, state.Errors, "phone")
	assert.Contains(t, state.Errors, "address")
	assert.Contains(t, state.Errors, "city")
	assert.Contains(t, state.Errors, "region")
	assert.NotContains(t, state.Errors, "first_name")

	state = state.ApplyShipping(validShipping()).AdvanceToDelivery()
	assert.Equal(t, StepDelivery, state.Step)
	assert.Empty(t, state.Errors)
}

func TestValidateShippingEmailShape(t *testing.T) {
	addr := validShipping()
	addr.Email = "not-an-email"

	errs := ValidateShipping(addr)
	assert.Equal(t, "must be a valid email", errs["email"])
}

func TestValidateShippingRegionAllowList(t *testing.T) {
	addr := validShipping()
	addr.Region = "Atlantis"
	assert.Equal(t, "must be a supported region", ValidateShipping(addr)["region"])

	addr.Region = "Bono East"
	assert.Empty(t, ValidateShipping(addr))
}

func TestAccountCheckoutPinsEmail(t *testing.T) {
	state := NewState("kofi@example.com")
	assert.Equal(t, CheckoutTypeAccount, state.CheckoutType)
	assert.Equal(t, "kofi@example.com", state.Shipping.Email)

	form := validShipping()
	form.Email = "spoofed@example.com"
	state = state.ApplyShipping(form)
	assert.Equal(t, "kofi@example.com", state.Shipping.Email)
}

func TestGuestCheckoutKeepsFormEmail(t *testing.T) {
	state := NewState("").ApplyShipping(validShipping())
	assert.Equal(t, CheckoutTypeGuest, state.CheckoutType)
	assert.Equal(t, "ama@example.com", state.Shipping.Email)
}

func TestBackKeepsEnteredData(t *testing.T) {
	state := NewState("").ApplyShipping(validShipping()).AdvanceToDelivery()
	state = state.SelectDelivery(enums.DeliveryMethodDoorstep, enums.PaymentMethodMoolre)

	state = state.Back()
	assert.Equal(t, StepShipping, state.Step)
	assert.Equal(t, "Ama", state.Shipping.FirstName)
	assert.Equal(t, enums.DeliveryMethodDoorstep, state.DeliveryMethod)
	assert.Equal(t, enums.PaymentMethodMoolre, state.PaymentMethod)

	state = state.AdvanceToDelivery()
	assert.Equal(t, StepDelivery, state.Step)
}
