package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abgdnv/gocheckout/internal/shipping"
)

// Receipt is the read-only record of a successful checkout, consumed by the
// presentation layer.
type Receipt struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Customer    string
	Lines       []ReceiptLine
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
	BalanceLeft decimal.Decimal
	Shipments   []shipping.Shipment
}

// ReceiptLine describes one purchased cart line.
type ReceiptLine struct {
	Name       string
	Amount     decimal.Decimal
	ByWeight   bool
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// buildReceiptLocked snapshots the cart into a receipt. Called after the
// commit, before the items are cleared.
func (c *Cart) buildReceiptLocked(now time.Time, subtotal, total decimal.Decimal) *Receipt {
	lines := make([]ReceiptLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, ReceiptLine{
			Name:       it.Name(),
			Amount:     it.amount,
			ByWeight:   it.product.ByWeight(),
			UnitPrice:  it.product.PricePerUnit(),
			TotalPrice: it.TotalPrice(),
		})
	}
	return &Receipt{
		ID:          uuid.New(),
		CreatedAt:   now,
		Customer:    c.customer.Name(),
		Lines:       lines,
		Subtotal:    subtotal,
		ShippingFee: c.shippingFee,
		Total:       total,
		BalanceLeft: c.customer.Balance(),
	}
}
