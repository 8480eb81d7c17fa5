package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("shipping address is missing required fields")
	ErrInvalidRequest = errors.New("invalid checkout request")
	// ErrConflict surfaces a concurrent modification detected by a
	// conditional update. The whole checkout should be retried, not
	// partially replayed.
	ErrConflict = errors.New("concurrent modification, retry checkout")
)

// StockShortage reports one cart line that could not be reserved.
type StockShortage struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Requested int   `json:"requested"`
	Available int   `json:"available"`
}

// InsufficientStockError carries per-line shortage detail so the buyer can
// adjust quantities. The cart is left intact when this is returned.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d cart line(s)", len(e.Shortages))
}
