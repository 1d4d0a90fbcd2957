package checkout

import (
	"regexp"
	"strings"

	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	"github.com/kofiadjei/sleekline-backend/pkg/types"
)

// CheckoutType distinguishes guest from signed-in checkout.
type CheckoutType string

const (
	CheckoutTypeGuest   CheckoutType = "guest"
	CheckoutTypeAccount CheckoutType = "account"
)

// Step indexes the two-step flow; the review step is folded into delivery.
type Step int

const (
	StepShipping Step = 1
	StepDelivery Step = 2
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ghanaRegions is the delivery coverage allow-list.
var ghanaRegions = map[string]struct{}{
	"Ahafo": {}, "Ashanti": {}, "Bono": {}, "Bono East": {}, "Central": {},
	"Eastern": {}, "Greater Accra": {}, "North East": {}, "Northern": {},
	"Oti": {}, "Savannah": {}, "Upper East": {}, "Upper West": {},
	"Volta": {}, "Western": {}, "Western North": {},
}

// State is the checkout session snapshot exchanged with the client on every
// transition. The client holds the state; the server owns the transitions.
type State struct {
	Step           Step                  `json:"step"`
	CheckoutType   CheckoutType          `json:"checkout_type"`
	Shipping       types.ShippingAddress `json:"shipping"`
	DeliveryMethod enums.DeliveryMethod  `json:"delivery_method,omitempty"`
	PaymentMethod  enums.PaymentMethod   `json:"payment_method,omitempty"`
	Errors         map[string]string     `json:"errors,omitempty"`

	pinnedEmail string
}

// NewState starts a checkout at the shipping step. An authenticated email
// switches the flow to account checkout and pins the email field.
func NewState(authenticatedEmail string) State {
	state := State{
		Step:         StepShipping,
		CheckoutType: CheckoutTypeGuest,
	}
	if email := strings.TrimSpace(authenticatedEmail); email != "" {
		state.CheckoutType = CheckoutTypeAccount
		state.Shipping.Email = email
		state.pinnedEmail = email
	}
	return state
}

// ApplyShipping merges the submitted form into the state. For account
// checkout the pinned email wins over whatever the form carries.
func (s State) ApplyShipping(form types.ShippingAddress) State {
	s.Shipping = form
	if s.CheckoutType == CheckoutTypeAccount && s.pinnedEmail != "" {
		s.Shipping.Email = s.pinnedEmail
	}
	return s
}

// ValidateShipping checks the seven required fields and the email shape,
// returning a field-keyed error map. Empty map means the form passes.
func ValidateShipping(addr types.ShippingAddress) map[string]string {
	errs := map[string]string{}

	required := []struct {
		field string
		value string
	}{
		{"first_name", addr.FirstName},
		{"last_name", addr.LastName},
		{"email", addr.Email},
		{"phone", addr.Phone},
		{"address", addr.Address},
		{"city", addr.City},
		{"region", addr.Region},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs[f.field] = "is required"
		}
	}

	if _, missing := errs["email"]; !missing && !emailPattern.MatchString(addr.Email) {
		errs["email"] = "must be a valid email"
	}
	if _, missing := errs["region"]; !missing {
		if _, ok := ghanaRegions[strings.TrimSpace(addr.Region)]; !ok {
			errs["region"] = "must be a supported region"
		}
	}

	return errs
}

// AdvanceToDelivery attempts the shipping → delivery transition. On
// validation failure the state stays on the shipping step with the error map
// populated; on success the errors are cleared and the step advances.
func (s State) AdvanceToDelivery() State {
	errs := ValidateShipping(s.Shipping)
	if len(errs) > 0 {
		s.Step = StepShipping
		s.Errors = errs
		return s
	}
	s.Step = StepDelivery
	s.Errors = nil
	return s
}

// SelectDelivery records the delivery and payment choice on step 2.
func (s State) SelectDelivery(delivery enums.DeliveryMethod, payment enums.PaymentMethod) State {
	s.DeliveryMethod = delivery
	s.PaymentMethod = payment
	return s
}

// Back returns to the shipping step without losing any entered data.
func (s State) Back() State {
	s.Step = StepShipping
	return s
}
