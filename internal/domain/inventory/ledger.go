// internal/domain/inventory/ledger.go
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/your-org/erp-backend/internal/domain/product"
)

// LotDraw records how much a single consumption took from one purchase lot
type LotDraw struct {
	Lot      *product.PurchaseLot
	Quantity int
	UnitCost decimal.Decimal
	Cost     decimal.Decimal
}

// Consumption is the result of drawing stock from purchase lots oldest-first
type Consumption struct {
	Quantity  int
	TotalCost decimal.Decimal
	Draws     []LotDraw
}

// UnitCost returns the average acquisition cost per consumed unit
func (c Consumption) UnitCost() decimal.Decimal {
	if c.Quantity == 0 {
		return decimal.Zero
	}
	return c.TotalCost.Div(decimal.NewFromInt(int64(c.Quantity)))
}

// TotalRemaining sums the undepleted quantity across lots. This is the
// authoritative stock figure; the product-level counter is a cache of it.
func TotalRemaining(lots []*product.PurchaseLot) int {
	total := 0
	for _, lot := range lots {
		if lot.Remaining > 0 {
			total += lot.Remaining
		}
	}
	return total
}

// Consume draws quantity units from the given purchase lots in first-in
// first-out order, oldest purchase date first. Lots with equal purchase
// dates are drawn in the order they appear in the slice.
//
// The call is all-or-nothing: if the lots cannot cover the full quantity,
// an *InsufficientInventoryError is returned and no lot is modified.
// On success the Remaining counters of the drawn lots are decremented in
// place and the exact acquisition cost is accumulated without intermediate
// rounding.
func Consume(lots []*product.PurchaseLot, quantity int) (Consumption, error) {
	if quantity <= 0 {
		return Consumption{}, ErrInvalidQuantity
	}

	available := TotalRemaining(lots)
	if available < quantity {
		return Consumption{}, &InsufficientInventoryError{
			Requested: quantity,
			Available: available,
		}
	}

	active := make([]*product.PurchaseLot, 0, len(lots))
	for _, lot := range lots {
		if lot.Remaining > 0 {
			active = append(active, lot)
		}
	}
	// Stable keeps insertion order for lots purchased the same instant
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].PurchaseDate.Before(active[j].PurchaseDate)
	})

	result := Consumption{
		Quantity:  quantity,
		TotalCost: decimal.Zero,
	}

	remaining := quantity
	for _, lot := range active {
		if remaining == 0 {
			break
		}

		take := remaining
		if lot.Remaining < take {
			take = lot.Remaining
		}

		cost := lot.UnitCost.Mul(decimal.NewFromInt(int64(take)))
		result.TotalCost = result.TotalCost.Add(cost)
		result.Draws = append(result.Draws, LotDraw{
			Lot:      lot,
			Quantity: take,
			UnitCost: lot.UnitCost,
			Cost:     cost,
		})

		lot.Remaining -= take
		remaining -= take
	}

	return result, nil
}
