// Package main runs a demonstration of the checkout flow: it seeds an
// inventory, fills a cart and checks out twice.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abgdnv/gocheckout/internal/cart"
	"github.com/abgdnv/gocheckout/internal/catalog"
	"github.com/abgdnv/gocheckout/internal/config"
	"github.com/abgdnv/gocheckout/internal/customer"
	"github.com/abgdnv/gocheckout/internal/report"
	"github.com/abgdnv/gocheckout/internal/shipping"
	"github.com/abgdnv/gocheckout/pkg/bootstrap"
	"github.com/abgdnv/gocheckout/pkg/configloader"
)

const appName = "checkout"

func main() {
	if err := run(); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgErr := configloader.Load[*config.Config](appName, map[string]any{
		"log.level":    "info",
		"shipping.fee": 5.0,
	})
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	inv, err := seedInventory()
	if err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}
	cust, err := customer.New("Youssef", decimal.NewFromInt(20000))
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	shipper := shipping.NewService(logger)
	crt := cart.New(cust, inv, shipper, decimal.NewFromFloat(cfg.Shipping.Fee), logger)

	fmt.Print(report.InventoryTable(inv.Snapshot()))

	adds := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"Cheese", decimal.NewFromInt(1000)},
		{"TV", decimal.NewFromInt(1)},
		{"Mobile Scratch Card", decimal.NewFromInt(2)},
		{"TV", decimal.NewFromInt(5)},
		{"Cheese", decimal.NewFromInt(1500)},
		{"Biscuits", decimal.NewFromInt(2)},
	}
	for _, a := range adds {
		if err := crt.Add(a.name, a.amount); err != nil {
			logger.Warn("item rejected", slog.String("product", a.name), slog.Any("error", err))
		}
	}

	fmt.Print(report.CartTable(crt.Items(), crt.TotalPrice()))
	checkout(crt, logger)

	// Second round: the cart is reusable after a successful checkout, and an
	// immediate re-checkout on an emptied cart must fail cleanly.
	if err := crt.Add("TV", decimal.NewFromInt(2)); err != nil {
		logger.Warn("item rejected", slog.String("product", "TV"), slog.Any("error", err))
	}
	fmt.Print(report.CartTable(crt.Items(), crt.TotalPrice()))
	checkout(crt, logger)
	checkout(crt, logger)

	fmt.Print(report.InventoryTable(inv.Snapshot()))
	return nil
}

func checkout(crt *cart.Cart, logger *slog.Logger) {
	receipt, err := crt.Checkout()
	if err != nil {
		logger.Warn("checkout rejected", slog.Any("error", err))
		return
	}
	fmt.Print(report.ReceiptText(receipt))
	fmt.Print(report.ShipmentsText(receipt.Shipments))
}

// seedInventory registers the demonstration products. Expiration dates are
// relative to the wall clock so the scenario keeps working over time.
func seedInventory() (*catalog.Inventory, error) {
	now := time.Now()
	nextMonth := now.AddDate(0, 1, 0)
	lastYear := now.AddDate(-1, 0, 0)

	configs := []catalog.ProductConfig{
		{
			Name:            "Cheese",
			PricePerUnit:    decimal.RequireFromString("0.05"),
			AvailableWeight: decimal.NewFromInt(2000),
			ExpiresAt:       &nextMonth,
			Shippable:       true,
			ByWeight:        true,
		},
		{
			Name:              "TV",
			PricePerUnit:      decimal.NewFromInt(10000),
			AvailableQuantity: 3,
			Shippable:         true,
		},
		{
			Name:              "Mobile Scratch Card",
			PricePerUnit:      decimal.NewFromInt(50),
			AvailableQuantity: 5,
		},
		{
			Name:              "Biscuits",
			PricePerUnit:      decimal.NewFromInt(10),
			AvailableQuantity: 10,
			ExpiresAt:         &lastYear,
		},
	}

	inv := catalog.NewInventory()
	for _, cfg := range configs {
		p, err := catalog.NewProduct(cfg)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", cfg.Name, err)
		}
		inv.Add(p)
	}
	return inv, nil
}
