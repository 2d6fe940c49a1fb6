package cart

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abgdnv/gocheckout/internal/catalog"
	"github.com/abgdnv/gocheckout/internal/customer"
	"github.com/abgdnv/gocheckout/internal/shipping"
)

// mockDispatcher records every dispatched batch.
type mockDispatcher struct {
	batches [][]shipping.Shipment
}

func (m *mockDispatcher) SendItems(items []shipping.Shippable) []shipping.Shipment {
	batch := make([]shipping.Shipment, 0, len(items))
	for _, item := range items {
		batch = append(batch, shipping.Shipment{Name: item.Name(), Weight: item.Weight()})
	}
	m.batches = append(m.batches, batch)
	return batch
}

// testNow is well before the Cheese expiry used by the fixtures.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustProduct(t *testing.T, cfg catalog.ProductConfig) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(cfg)
	require.NoError(t, err)
	return p
}

func testInventory(t *testing.T) *catalog.Inventory {
	t.Helper()
	cheeseExpiry := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	biscuitExpiry := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	inv := catalog.NewInventory()
	inv.Add(mustProduct(t, catalog.ProductConfig{
		Name:            "Cheese",
		PricePerUnit:    decimal.RequireFromString("0.05"),
		AvailableWeight: decimal.NewFromInt(2000),
		ExpiresAt:       &cheeseExpiry,
		Shippable:       true,
		ByWeight:        true,
	}))
	inv.Add(mustProduct(t, catalog.ProductConfig{
		Name:              "TV",
		PricePerUnit:      decimal.NewFromInt(10000),
		AvailableQuantity: 3,
		Shippable:         true,
	}))
	inv.Add(mustProduct(t, catalog.ProductConfig{
		Name:              "Mobile Scratch Card",
		PricePerUnit:      decimal.NewFromInt(50),
		AvailableQuantity: 5,
	}))
	inv.Add(mustProduct(t, catalog.ProductConfig{
		Name:              "Biscuits",
		PricePerUnit:      decimal.NewFromInt(10),
		AvailableQuantity: 10,
		ExpiresAt:         &biscuitExpiry,
	}))
	return inv
}

func testCart(t *testing.T, balance int64) (*Cart, *catalog.Inventory, *customer.Customer, *mockDispatcher) {
	t.Helper()
	inv := testInventory(t)
	cust, err := customer.New("Youssef", decimal.NewFromInt(balance))
	require.NoError(t, err)
	dispatcher := &mockDispatcher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(cust, inv, dispatcher, DefaultShippingFee, logger)
	c.now = func() time.Time { return testNow }
	return c, inv, cust, dispatcher
}

func available(t *testing.T, inv *catalog.Inventory, name string) decimal.Decimal {
	t.Helper()
	p, ok := inv.Product(name)
	require.True(t, ok)
	return p.AvailableAmount()
}

func Test_Add(t *testing.T) {
	testCases := []struct {
		name        string
		product     string
		amount      int64
		expectError error
	}{
		{
			name:    "Success - available product",
			product: "TV",
			amount:  1,
		},
		{
			name:        "Error - unknown product",
			product:     "Laptop",
			amount:      1,
			expectError: catalog.ErrProductNotFound,
		},
		{
			name:        "Error - expired product",
			product:     "Biscuits",
			amount:      2,
			expectError: catalog.ErrProductExpired,
		},
		{
			name:        "Error - amount above stock",
			product:     "TV",
			amount:      5,
			expectError: catalog.ErrInsufficientStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c, inv, _, _ := testCart(t, 20000)
			// when
			err := c.Add(tc.product, decimal.NewFromInt(tc.amount))
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.True(t, c.IsEmpty(), "rejected item must not enter the cart")
			} else {
				require.NoError(t, err)
				require.Len(t, c.Items(), 1)
			}
			// adding never moves stock
			assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(3)))
		})
	}
}

func Test_Add_CumulativeDemand(t *testing.T) {
	// given: 2000g of Cheese in stock
	c, inv, _, _ := testCart(t, 20000)

	// when: the first request fits, the second would oversubscribe the cart
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	err := c.Add("Cheese", decimal.NewFromInt(1500))

	// then: the second add is rejected even though inventory alone could
	// cover 1500g, because cumulative cart demand would reach 2500g
	assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
	require.Len(t, c.Items(), 1)
	assert.True(t, available(t, inv, "Cheese").Equal(decimal.NewFromInt(2000)))

	// and: topping up to exactly the stock is still allowed
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
}

func Test_Items_PreserveOrder(t *testing.T) {
	// given
	c, _, _, _ := testCart(t, 20000)
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	require.NoError(t, c.Add("TV", decimal.NewFromInt(1)))
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(2)))
	// when
	items := c.Items()
	// then
	require.Len(t, items, 3)
	assert.Equal(t, "Cheese", items[0].Name)
	assert.Equal(t, "TV", items[1].Name)
	assert.Equal(t, "Mobile Scratch Card", items[2].Name)
}

func Test_ShippableItems(t *testing.T) {
	// given
	c, _, _, _ := testCart(t, 20000)
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(2)))
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	require.NoError(t, c.Add("TV", decimal.NewFromInt(1)))
	// when
	shippables := c.ShippableItems()
	// then: scratch cards are not shippable; cart order is preserved
	require.Len(t, shippables, 2)
	assert.Equal(t, "Cheese", shippables[0].Name())
	assert.True(t, shippables[0].Weight().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "TV", shippables[1].Name())
	assert.True(t, shippables[1].Weight().IsZero())
}

func Test_Checkout_Success(t *testing.T) {
	// given: the full demo order against a balance of 20000
	c, inv, cust, dispatcher := testCart(t, 20000)
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	require.NoError(t, c.Add("TV", decimal.NewFromInt(1)))
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(2)))

	// when
	receipt, err := c.Checkout()

	// then: subtotal 50 + 10000 + 100, plus the 5.00 shipping fee
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Subtotal.Equal(decimal.NewFromInt(10150)), "subtotal = %s", receipt.Subtotal)
	assert.True(t, receipt.ShippingFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(10155)))
	assert.True(t, receipt.BalanceLeft.Equal(decimal.NewFromInt(9845)))
	assert.True(t, cust.Balance().Equal(decimal.NewFromInt(9845)))

	// and: every counter dropped by exactly the ordered amount
	assert.True(t, available(t, inv, "Cheese").Equal(decimal.NewFromInt(1000)))
	assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(2)))
	assert.True(t, available(t, inv, "Mobile Scratch Card").Equal(decimal.NewFromInt(3)))

	// and: receipt lines keep cart order
	require.Len(t, receipt.Lines, 3)
	assert.Equal(t, "Cheese", receipt.Lines[0].Name)
	assert.True(t, receipt.Lines[0].TotalPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "TV", receipt.Lines[1].Name)
	assert.Equal(t, "Mobile Scratch Card", receipt.Lines[2].Name)

	// and: only the shippable subset was dispatched
	require.Len(t, dispatcher.batches, 1)
	require.Len(t, dispatcher.batches[0], 2)
	assert.Equal(t, "Cheese", dispatcher.batches[0][0].Name)
	assert.Equal(t, "TV", dispatcher.batches[0][1].Name)
	assert.Equal(t, dispatcher.batches[0], receipt.Shipments)

	// and: the cart is cleared and reusable
	assert.True(t, c.IsEmpty())
}

func Test_Checkout_EmptyCart(t *testing.T) {
	// given
	c, inv, cust, dispatcher := testCart(t, 20000)
	// when
	receipt, err := c.Checkout()
	// then
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, receipt)
	assert.Empty(t, dispatcher.batches)
	assert.True(t, cust.Balance().Equal(decimal.NewFromInt(20000)))
	assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(3)))
}

func Test_Checkout_EmptyAfterSuccess(t *testing.T) {
	// given: a completed checkout
	c, inv, cust, _ := testCart(t, 20000)
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(1)))
	_, err := c.Checkout()
	require.NoError(t, err)
	balanceAfter := cust.Balance()

	// when: an immediate second checkout
	_, err = c.Checkout()

	// then: rejected with no further mutation
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, cust.Balance().Equal(balanceAfter))
	assert.True(t, available(t, inv, "Mobile Scratch Card").Equal(decimal.NewFromInt(4)))
}

func Test_Checkout_InsufficientBalance(t *testing.T) {
	// given: a balance that misses the total by the shipping fee
	c, inv, cust, dispatcher := testCart(t, 10150)
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	require.NoError(t, c.Add("TV", decimal.NewFromInt(1)))
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(2)))

	// when
	receipt, err := c.Checkout()

	// then: nothing moved, the cart is kept for retry
	assert.ErrorIs(t, err, customer.ErrInsufficientBalance)
	assert.Nil(t, receipt)
	assert.Empty(t, dispatcher.batches)
	assert.True(t, cust.Balance().Equal(decimal.NewFromInt(10150)))
	assert.True(t, available(t, inv, "Cheese").Equal(decimal.NewFromInt(2000)))
	assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(3)))
	assert.Len(t, c.Items(), 3)

	// and: after a deposit the same cart checks out
	cust.Deposit(decimal.NewFromInt(5))
	receipt, err = c.Checkout()
	require.NoError(t, err)
	assert.True(t, receipt.BalanceLeft.IsZero())
	assert.True(t, c.IsEmpty())
}

func Test_Checkout_ExpiredSinceAdd(t *testing.T) {
	// given: Cheese added while fresh
	c, inv, cust, _ := testCart(t, 20000)
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1000)))
	require.NoError(t, c.Add("TV", decimal.NewFromInt(1)))

	// when: the clock crosses the Cheese expiry before checkout
	c.now = func() time.Time { return time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC) }
	receipt, err := c.Checkout()

	// then: aborted before any mutation
	assert.ErrorIs(t, err, catalog.ErrProductExpired)
	assert.Nil(t, receipt)
	assert.True(t, cust.Balance().Equal(decimal.NewFromInt(20000)))
	assert.True(t, available(t, inv, "Cheese").Equal(decimal.NewFromInt(2000)))
	assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(3)))
	assert.Len(t, c.Items(), 2)
}

func Test_Checkout_RevalidatesStock(t *testing.T) {
	// given: stock shrinks between add and checkout (a second cart bought it)
	c, inv, cust, _ := testCart(t, 20000)
	require.NoError(t, c.Add("TV", decimal.NewFromInt(2)))
	require.NoError(t, inv.Deduct("TV", decimal.NewFromInt(2)))

	// when
	receipt, err := c.Checkout()

	// then: the stale cart is rejected, nothing deducted twice
	assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
	assert.Nil(t, receipt)
	assert.True(t, cust.Balance().Equal(decimal.NewFromInt(20000)))
	assert.True(t, available(t, inv, "TV").Equal(decimal.NewFromInt(1)))
	assert.Len(t, c.Items(), 1)
}

func Test_Checkout_AccumulatesSameProductLines(t *testing.T) {
	// given: two lines for the same product
	c, inv, _, _ := testCart(t, 20000)
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(800)))
	require.NoError(t, c.Add("Cheese", decimal.NewFromInt(1200)))

	// when
	receipt, err := c.Checkout()

	// then: deductions accumulate to exact depletion
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 2)
	assert.True(t, available(t, inv, "Cheese").IsZero())
}

func Test_Checkout_NoShippableItems(t *testing.T) {
	// given: a cart of non-shippable items only
	c, _, _, dispatcher := testCart(t, 20000)
	require.NoError(t, c.Add("Mobile Scratch Card", decimal.NewFromInt(2)))

	// when
	receipt, err := c.Checkout()

	// then: the dispatcher is never called
	require.NoError(t, err)
	assert.Empty(t, dispatcher.batches)
	assert.Empty(t, receipt.Shipments)
}
