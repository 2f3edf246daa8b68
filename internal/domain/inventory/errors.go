// internal/domain/inventory/errors.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/your-org/erp-backend/internal/domain/product"
)

// ErrInvalidQuantity is returned when a consumption is requested for a
// non-positive quantity
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ErrConcurrentModification is the product-level sentinel re-exported so
// ledger callers can match it without importing both packages. Every stock
// write (settlement and purchase intake alike) fails with it when the
// version column moved underneath the transaction.
var ErrConcurrentModification = product.ErrConcurrentModification

// InsufficientStockError reports that the product-level stock counter cannot
// cover the requested quantity. It carries the available figure so callers
// can report it to the customer.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// InsufficientInventoryError reports that the purchase lots themselves cannot
// cover the requested quantity. When it fires after a passing stock precheck
// the counter and the lots disagree, which is a data integrity problem.
type InsufficientInventoryError struct {
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory in purchase lots: requested %d, available %d", e.Requested, e.Available)
}
