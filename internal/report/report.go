// Package report renders inventory listings, cart contents and receipts as
// text. It consumes read-only snapshots only; column layout is presentation
// detail, not a core contract.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abgdnv/gocheckout/internal/cart"
	"github.com/abgdnv/gocheckout/internal/catalog"
	"github.com/abgdnv/gocheckout/internal/shipping"
)

const dateLayout = "2006-01-02"

// InventoryTable renders the product listing.
func InventoryTable(products []catalog.ProductInfo) string {
	var b strings.Builder
	b.WriteString("Available Products:\n")
	b.WriteString(fmt.Sprintf("%-25s %-10s %-10s %-10s %-12s\n", "Name", "Type", "Price", "Stock", "Expires"))
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for _, p := range products {
		kind := "Quantity"
		stock := fmt.Sprintf("%s pcs", p.Available)
		if p.ByWeight {
			kind = "Weight"
			stock = fmt.Sprintf("%sg", p.Available)
		}
		b.WriteString(fmt.Sprintf("%-25s %-10s %-10s %-10s %-12s\n",
			p.Name, kind, p.PricePerUnit.StringFixed(2), stock, expiry(p.ExpiresAt)))
	}
	b.WriteString(strings.Repeat("-", 70) + "\n")
	return b.String()
}

// CartTable renders the cart contents with the running subtotal.
func CartTable(items []cart.ItemInfo, subtotal decimal.Decimal) string {
	if len(items) == 0 {
		return "Your cart is empty.\n"
	}
	var b strings.Builder
	b.WriteString("Your cart contains:\n")
	b.WriteString(fmt.Sprintf("%-4s %-20s %-10s %-12s %-10s %-8s\n", "No.", "Name", "Qty/Wt", "Expires", "Shippable", "Total"))
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for i, it := range items {
		shippable := "No"
		if it.Shippable {
			shippable = "Yes"
		}
		b.WriteString(fmt.Sprintf("%-4d %-20s %-10s %-12s %-10s %s$\n",
			i+1, it.Name, amount(it.Amount, it.ByWeight), expiry(it.ExpiresAt), shippable, it.TotalPrice.StringFixed(2)))
	}
	b.WriteString(strings.Repeat("-", 70) + "\n")
	b.WriteString(fmt.Sprintf("Subtotal: %s$\n", subtotal.StringFixed(2)))
	return b.String()
}

// ReceiptText renders a checkout receipt.
func ReceiptText(r *cart.Receipt) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("RECEIPT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString(fmt.Sprintf("%-20s %-10s %-10s %-10s\n", "Product", "Qty/Wt", "Unit", "Total"))
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, line := range r.Lines {
		b.WriteString(fmt.Sprintf("%-20s %-10s %-10s %-10s\n",
			line.Name, amount(line.Amount, line.ByWeight),
			line.UnitPrice.StringFixed(2)+"$", line.TotalPrice.StringFixed(2)+"$"))
	}
	b.WriteString(strings.Repeat("-", 50) + "\n")
	b.WriteString(fmt.Sprintf("%-42s %s$\n", "Subtotal", r.Subtotal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("%-42s %s$\n", "Shipping Fee", r.ShippingFee.StringFixed(2)))
	b.WriteString(fmt.Sprintf("%-42s %s$\n", "Total Paid", r.Total.StringFixed(2)))
	b.WriteString(fmt.Sprintf("%-42s %s$\n", "Balance Left", r.BalanceLeft.StringFixed(2)))
	b.WriteString(strings.Repeat("=", 50) + "\n")
	return b.String()
}

// ShipmentsText renders the dispatched items.
func ShipmentsText(shipments []shipping.Shipment) string {
	if len(shipments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Shipping the following items:\n")
	for _, s := range shipments {
		b.WriteString(fmt.Sprintf("- %s (%sg)\n", s.Name, s.Weight))
	}
	return b.String()
}

func expiry(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func amount(a decimal.Decimal, byWeight bool) string {
	if byWeight {
		return fmt.Sprintf("%s g", a.StringFixed(2))
	}
	return fmt.Sprintf("%s pcs", a)
}
