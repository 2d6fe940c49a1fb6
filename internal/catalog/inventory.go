package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Inventory owns the products of one shop, keyed by name. Individual
// operations are safe for concurrent use; multi-step flows such as checkout
// still assume a single logical caller (see cart.Cart.Checkout).
type Inventory struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		products: make(map[string]*Product),
	}
}

// Add inserts the product, overwriting any existing product with the same
// name. Last registration wins.
func (inv *Inventory) Add(p *Product) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.products[p.Name()] = p
}

// Product returns the product registered under name.
func (inv *Inventory) Product(name string) (*Product, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	p, ok := inv.products[name]
	return p, ok
}

// CheckAvailability reports whether amount of the named product can be sold
// at the moment now. It fails with ErrProductNotFound, ErrProductExpired,
// ErrInvalidAmount or ErrInsufficientStock; requesting exactly the available
// amount succeeds. It never mutates stock.
func (inv *Inventory) CheckAvailability(name string, amount decimal.Decimal, now time.Time) error {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	p, ok := inv.products[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrProductNotFound)
	}
	if p.IsExpiredAt(now) {
		return fmt.Errorf("%s: %w", name, ErrProductExpired)
	}
	if err := validAmount(p, amount); err != nil {
		return err
	}
	if p.byWeight {
		if amount.GreaterThan(p.weight) {
			return fmt.Errorf("only %sg of %s available: %w", p.weight, name, ErrInsufficientStock)
		}
	} else {
		if amount.GreaterThan(decimal.NewFromInt(p.quantity)) {
			return fmt.Errorf("only %d units of %s available: %w", p.quantity, name, ErrInsufficientStock)
		}
	}
	return nil
}

// Deduct subtracts amount from the product's active counter. Unlike the
// original check-then-act contract this re-checks existence and bounds, so a
// counter can never go negative; callers that validated first will never see
// an error here.
func (inv *Inventory) Deduct(name string, amount decimal.Decimal) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	p, ok := inv.products[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrProductNotFound)
	}
	if err := validAmount(p, amount); err != nil {
		return err
	}
	if p.byWeight {
		if amount.GreaterThan(p.weight) {
			return fmt.Errorf("only %sg of %s available: %w", p.weight, name, ErrInsufficientStock)
		}
		p.weight = p.weight.Sub(amount)
		return nil
	}
	if amount.GreaterThan(decimal.NewFromInt(p.quantity)) {
		return fmt.Errorf("only %d units of %s available: %w", p.quantity, name, ErrInsufficientStock)
	}
	p.quantity -= amount.IntPart()
	return nil
}

// Snapshot returns name-sorted read-only views of all products.
func (inv *Inventory) Snapshot() []ProductInfo {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	list := make([]ProductInfo, 0, len(inv.products))
	for _, p := range inv.products {
		list = append(list, p.Info())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// validAmount rejects non-positive amounts and, for unit-counted products,
// fractional ones.
func validAmount(p *Product, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive: %w", amount, ErrInvalidAmount)
	}
	if !p.byWeight && !amount.IsInteger() {
		return fmt.Errorf("%s is sold in whole units, got %s: %w", p.name, amount, ErrInvalidAmount)
	}
	return nil
}
