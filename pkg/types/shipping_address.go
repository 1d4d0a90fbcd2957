package types

import "strings"

// ShippingAddress snapshots the address captured during checkout. The same
// value is stored on orders as both shipping and billing address.
type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

// FullName joins the first and last name, trimming stray whitespace.
func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}
