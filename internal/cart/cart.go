// Package cart implements the shopping cart and the checkout transaction
// spanning inventory and customer balance.
package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abgdnv/gocheckout/internal/catalog"
	"github.com/abgdnv/gocheckout/internal/customer"
	"github.com/abgdnv/gocheckout/internal/shipping"
)

var ErrEmptyCart = errors.New("cart is empty")

// DefaultShippingFee is charged per checkout unless the cart is configured
// otherwise.
var DefaultShippingFee = decimal.NewFromInt(5)

// Item is one cart line: a product reference plus the requested amount
// (units, or grams for by-weight products). Items are created only by
// Cart.Add, after validation.
type Item struct {
	product *catalog.Product
	amount  decimal.Decimal
}

func (i *Item) Name() string            { return i.product.Name() }
func (i *Item) Amount() decimal.Decimal { return i.amount }

// TotalPrice returns the line total.
func (i *Item) TotalPrice() decimal.Decimal {
	return i.product.TotalPrice(i.amount)
}

// Weight returns the line's shipping weight in grams. Satisfies
// shipping.Shippable.
func (i *Item) Weight() decimal.Decimal {
	return i.product.ShippingWeight(i.amount)
}

// ItemInfo is a read-only snapshot of a cart line for display.
type ItemInfo struct {
	Name       string
	Amount     decimal.Decimal
	ByWeight   bool
	ExpiresAt  *time.Time
	Shippable  bool
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// Cart is the ordered list of items one customer intends to buy from one
// inventory. A cart survives failed checkouts and is reusable after a
// successful one.
type Cart struct {
	customer    *customer.Customer
	inventory   *catalog.Inventory
	dispatcher  shipping.Dispatcher
	shippingFee decimal.Decimal
	logger      *slog.Logger
	now         func() time.Time

	mu    sync.Mutex
	items []*Item
}

// New creates a cart for one customer against one inventory. Shippable items
// of a successful checkout are handed to dispatcher.
func New(cust *customer.Customer, inv *catalog.Inventory, dispatcher shipping.Dispatcher, fee decimal.Decimal, logger *slog.Logger) *Cart {
	return &Cart{
		customer:    cust,
		inventory:   inv,
		dispatcher:  dispatcher,
		shippingFee: fee,
		logger:      logger,
		now:         time.Now,
	}
}

// Add validates and appends a cart line. It rejects the request when the
// product is missing, expired, or when stock cannot cover the cart's
// cumulative demand for the product (existing lines plus this one). Inventory
// is not mutated; stock moves only at checkout.
func (c *Cart) Add(productName string, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.inventory.Product(productName)
	if !ok {
		return fmt.Errorf("cannot add %s: %w", productName, catalog.ErrProductNotFound)
	}
	demand := amount.Add(c.demandLocked(productName))
	if err := c.inventory.CheckAvailability(productName, demand, c.now()); err != nil {
		return fmt.Errorf("cannot add %s: %w", productName, err)
	}
	c.items = append(c.items, &Item{product: p, amount: amount})
	c.logger.Debug("item added",
		slog.String("product", productName),
		slog.String("amount", amount.String()),
	)
	return nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Items returns snapshots of the cart lines in insertion order.
func (c *Cart) Items() []ItemInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]ItemInfo, 0, len(c.items))
	for _, it := range c.items {
		list = append(list, ItemInfo{
			Name:       it.Name(),
			Amount:     it.amount,
			ByWeight:   it.product.ByWeight(),
			ExpiresAt:  it.product.ExpiresAt(),
			Shippable:  it.product.Shippable(),
			UnitPrice:  it.product.PricePerUnit(),
			TotalPrice: it.TotalPrice(),
		})
	}
	return list
}

// TotalPrice returns the subtotal of all cart lines, before the shipping fee.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

// ShippableItems returns the cart lines flagged for shipment, in cart order.
func (c *Cart) ShippableItems() []shipping.Shippable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shippableLocked()
}

// Checkout runs the full purchase transaction: validate every line again
// (state may have changed since Add), verify the balance covers subtotal plus
// shipping fee, then commit by deducting stock and charging the customer,
// dispatching the shippable lines and clearing the cart. Validation and
// commit are strictly separated: any validation failure returns before a
// single mutation, so a failed checkout leaves inventory, balance and cart
// untouched for retry. The transaction assumes one logical caller per
// customer and inventory; the commit itself cannot fail after validation
// under that assumption, and a deduction error mid-commit is therefore
// reported as an invariant violation rather than papered over.
func (c *Cart) Checkout() (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return nil, ErrEmptyCart
	}
	now := c.now()
	for _, it := range c.items {
		if it.product.IsExpiredAt(now) {
			return nil, fmt.Errorf("cannot checkout: %s: %w", it.Name(), catalog.ErrProductExpired)
		}
	}
	subtotal := c.subtotalLocked()
	total := subtotal.Add(c.shippingFee)
	if c.customer.Balance().LessThan(total) {
		return nil, fmt.Errorf("cannot checkout: total %s: %w", total, customer.ErrInsufficientBalance)
	}
	// Re-validate cumulative demand per product, not per line, so two lines
	// cannot jointly oversubscribe a counter the commit is about to drain.
	for _, name := range c.productOrderLocked() {
		if err := c.inventory.CheckAvailability(name, c.demandLocked(name), now); err != nil {
			return nil, fmt.Errorf("cannot checkout: %w", err)
		}
	}

	for _, it := range c.items {
		if err := c.inventory.Deduct(it.Name(), it.amount); err != nil {
			return nil, fmt.Errorf("stock deduction failed mid-checkout: %w", err)
		}
	}
	if err := c.customer.Charge(total); err != nil {
		return nil, fmt.Errorf("charge failed mid-checkout: %w", err)
	}

	receipt := c.buildReceiptLocked(now, subtotal, total)
	if shippables := c.shippableLocked(); len(shippables) > 0 {
		receipt.Shipments = c.dispatcher.SendItems(shippables)
	}
	c.items = nil

	c.logger.Info("checkout complete",
		slog.String("receipt_id", receipt.ID.String()),
		slog.String("total", receipt.Total.String()),
		slog.String("balance_left", receipt.BalanceLeft.String()),
	)
	return receipt, nil
}

// demandLocked sums the amounts of existing lines for the named product.
func (c *Cart) demandLocked(productName string) decimal.Decimal {
	demand := decimal.Zero
	for _, it := range c.items {
		if it.Name() == productName {
			demand = demand.Add(it.amount)
		}
	}
	return demand
}

// productOrderLocked returns the distinct product names in first-seen order.
func (c *Cart) productOrderLocked() []string {
	seen := make(map[string]struct{}, len(c.items))
	order := make([]string, 0, len(c.items))
	for _, it := range c.items {
		if _, ok := seen[it.Name()]; ok {
			continue
		}
		seen[it.Name()] = struct{}{}
		order = append(order, it.Name())
	}
	return order
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range c.items {
		subtotal = subtotal.Add(it.TotalPrice())
	}
	return subtotal
}

func (c *Cart) shippableLocked() []shipping.Shippable {
	var shippables []shipping.Shippable
	for _, it := range c.items {
		if it.product.Shippable() {
			shippables = append(shippables, it)
		}
	}
	return shippables
}
