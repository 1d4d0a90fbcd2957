package cart

import (
	"fmt"

	pkgerrors "github.com/kofiadjei/sleekline-backend/pkg/errors"
)

// MOQViolationDetail exposes the data returned to callers when a line falls
// below its minimum order quantity.
type MOQViolationDetail struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	RequiredQty  int    `json:"required_qty"`
	RequestedQty int    `json:"requested_qty"`
}

// ValidateMOQ ensures every cart line meets its product's minimum order quantity.
func ValidateMOQ(items []Item) error {
	var violations []MOQViolationDetail
	for _, item := range items {
		if item.MinOrderQty <= 1 {
			continue
		}
		if item.Quantity < item.MinOrderQty {
			violations = append(violations, MOQViolationDetail{
				ProductID:    item.ProductID,
				ProductName:  item.Name,
				RequiredQty:  item.MinOrderQty,
				RequestedQty: item.Quantity,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("minimum order quantity not met for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
