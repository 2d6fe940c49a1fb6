// Package customer provides the customer account and its balance rules.
package customer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Customer holds a mutable, never-negative balance.
type Customer struct {
	id   uuid.UUID
	name string

	mu      sync.Mutex
	balance decimal.Decimal
}

// New creates a customer with an opening balance.
func New(name string, openingBalance decimal.Decimal) (*Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("opening balance %s is negative", openingBalance)
	}
	return &Customer{
		id:      uuid.New(),
		name:    name,
		balance: openingBalance,
	}, nil
}

func (c *Customer) ID() uuid.UUID { return c.id }
func (c *Customer) Name() string  { return c.name }

// Balance returns the current balance.
func (c *Customer) Balance() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// Charge subtracts amount from the balance. It fails with
// ErrInsufficientBalance if the balance would go negative; charging the exact
// balance succeeds.
func (c *Customer) Charge(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("charge amount %s must be positive", amount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balance.LessThan(amount) {
		return fmt.Errorf("balance %s is below %s: %w", c.balance, amount, ErrInsufficientBalance)
	}
	c.balance = c.balance.Sub(amount)
	return nil
}

// Deposit adds amount to the balance. Non-positive amounts are ignored.
func (c *Customer) Deposit(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = c.balance.Add(amount)
}
