package cart

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
)

// Shipping is a flat fee in GHS, waived above the free-shipping threshold.
var (
	flatShippingFee       = decimal.NewFromInt(50)
	freeShippingThreshold = decimal.NewFromInt(500)
)

// couponTable is the static allow-list. A single welcome code today.
var couponTable = map[string]decimal.Decimal{
	"WELCOME20": decimal.NewFromInt(20),
}

// Item is one cart line. Uniqueness key is (ProductID, Variant). ProductID may
// be a catalog UUID or a human slug; resolution to a canonical id happens at
// order submission, not here.
type Item struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Image       *string         `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	Variant     *string         `json:"variant,omitempty"`
	Slug        string          `json:"slug,omitempty"`
	MaxStock    int             `json:"max_stock"`
	MinOrderQty int             `json:"min_order_qty"`
}

// Snapshot is the full per-session cart state persisted on every mutation.
type Snapshot struct {
	Items        []Item          `json:"items"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	CouponAmount decimal.Decimal `json:"coupon_amount"`
}

// Totals carries the derived money values for a snapshot.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives subtotal, shipping and total for the snapshot.
// Shipping is free strictly above the threshold; the coupon amount is
// subtracted last.
func ComputeTotals(s Snapshot) Totals {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := s.CouponAmount
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(shipping).Sub(discount),
	}
}

func sameLine(line Item, productID string, variant *string) bool {
	if line.ProductID != productID {
		return false
	}
	if line.Variant == nil || variant == nil {
		return line.Variant == nil && variant == nil
	}
	return *line.Variant == *variant
}

// mergeAdd appends the item or folds it into an existing (id, variant) line.
func mergeAdd(s Snapshot, item Item) Snapshot {
	for i, line := range s.Items {
		if sameLine(line, item.ProductID, item.Variant) {
			s.Items[i].Quantity = line.Quantity + item.Quantity
			return s
		}
	}
	s.Items = append(s.Items, item)
	return s
}

// setQuantity clamps the target line's quantity to [0, MaxStock]. Unknown
// lines are left untouched.
func setQuantity(s Snapshot, productID string, quantity int, variant *string) Snapshot {
	for i, line := range s.Items {
		if !sameLine(line, productID, variant) {
			continue
		}
		if quantity < 0 {
			quantity = 0
		}
		if line.MaxStock > 0 && quantity > line.MaxStock {
			quantity = line.MaxStock
		}
		s.Items[i].Quantity = quantity
		return s
	}
	return s
}

// removeLine drops the matching line; no-op when absent.
func removeLine(s Snapshot, productID string, variant *string) Snapshot {
	kept := s.Items[:0]
	for _, line := range s.Items {
		if sameLine(line, productID, variant) {
			continue
		}
		kept = append(kept, line)
	}
	s.Items = kept
	return s
}

// applyCoupon validates the code against the static table. Only one coupon is
// active at a time; a valid code replaces any previous one.
func applyCoupon(s Snapshot, code string) (Snapshot, error) {
	amount, ok := couponTable[code]
	if !ok {
		return s, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code").WithDetails(map[string]any{"code": code})
	}
	s.CouponCode = code
	s.CouponAmount = amount
	return s, nil
}

func removeCoupon(s Snapshot) Snapshot {
	s.CouponCode = ""
	s.CouponAmount = decimal.Zero
	return s
}
