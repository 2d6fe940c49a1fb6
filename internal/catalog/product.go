// Package catalog holds the product catalog: product entities and the
// in-memory inventory that tracks their stock.
package catalog

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ProductConfig carries the attributes of a new product. ByWeight selects
// which stock counter is active for the product's entire lifetime: unit
// products use AvailableQuantity, by-weight products use AvailableWeight
// (grams).
type ProductConfig struct {
	Name              string `validate:"required,max=100"`
	PricePerUnit      decimal.Decimal
	AvailableQuantity int64 `validate:"min=0"`
	AvailableWeight   decimal.Decimal
	ExpiresAt         *time.Time
	Shippable         bool
	ByWeight          bool
}

// Product is a catalog entry with an immutable identity and a single mutable
// stock counter. Stock is mutated only by Inventory.Deduct.
type Product struct {
	name         string
	pricePerUnit decimal.Decimal
	quantity     int64
	weight       decimal.Decimal
	expiresAt    *time.Time
	shippable    bool
	byWeight     bool
}

// NewProduct validates cfg and builds a product. The counter not selected by
// ByWeight is zeroed, whatever the config says.
func NewProduct(cfg ProductConfig) (*Product, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid product config: %w", err)
	}
	if cfg.PricePerUnit.IsNegative() {
		return nil, fmt.Errorf("invalid product config: price per unit %s is negative", cfg.PricePerUnit)
	}
	if cfg.AvailableWeight.IsNegative() {
		return nil, fmt.Errorf("invalid product config: available weight %s is negative", cfg.AvailableWeight)
	}
	p := &Product{
		name:         cfg.Name,
		pricePerUnit: cfg.PricePerUnit,
		expiresAt:    cfg.ExpiresAt,
		shippable:    cfg.Shippable,
		byWeight:     cfg.ByWeight,
	}
	if cfg.ByWeight {
		p.weight = cfg.AvailableWeight
	} else {
		p.quantity = cfg.AvailableQuantity
	}
	return p, nil
}

func (p *Product) Name() string                  { return p.name }
func (p *Product) PricePerUnit() decimal.Decimal { return p.pricePerUnit }
func (p *Product) ExpiresAt() *time.Time         { return p.expiresAt }
func (p *Product) Shippable() bool               { return p.shippable }
func (p *Product) ByWeight() bool                { return p.byWeight }

// AvailableAmount returns the active stock counter: grams for by-weight
// products, unit count otherwise.
func (p *Product) AvailableAmount() decimal.Decimal {
	if p.byWeight {
		return p.weight
	}
	return decimal.NewFromInt(p.quantity)
}

// IsExpiredAt reports whether the product's expiration date is strictly
// before t. A product without an expiration date never expires. Taking the
// moment as an argument keeps the expiration boundary testable.
func (p *Product) IsExpiredAt(t time.Time) bool {
	if p.expiresAt == nil {
		return false
	}
	return p.expiresAt.Before(t)
}

// IsExpired is IsExpiredAt against the wall clock.
func (p *Product) IsExpired() bool {
	return p.IsExpiredAt(time.Now())
}

// TotalPrice returns price per unit times amount. Amount validation is the
// caller's job; Inventory checks it before any stock movement.
func (p *Product) TotalPrice(amount decimal.Decimal) decimal.Decimal {
	return p.pricePerUnit.Mul(amount)
}

// ShippingWeight returns amount for by-weight products and zero otherwise:
// unit-counted products contribute no shipping weight.
func (p *Product) ShippingWeight(amount decimal.Decimal) decimal.Decimal {
	if p.byWeight {
		return amount
	}
	return decimal.Zero
}

// ProductInfo is a read-only snapshot of a product for display and reporting.
type ProductInfo struct {
	Name         string
	ByWeight     bool
	PricePerUnit decimal.Decimal
	Available    decimal.Decimal
	ExpiresAt    *time.Time
	Shippable    bool
}

// Info returns a snapshot of the product's current state.
func (p *Product) Info() ProductInfo {
	return ProductInfo{
		Name:         p.name,
		ByWeight:     p.byWeight,
		PricePerUnit: p.pricePerUnit,
		Available:    p.AvailableAmount(),
		ExpiresAt:    p.expiresAt,
		Shippable:    p.shippable,
	}
}
