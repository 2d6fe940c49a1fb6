// Package shipping dispatches the shippable part of a completed order.
package shipping

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Shippable is the capability a cart line needs to be handed to the shipping
// collaborator.
type Shippable interface {
	Name() string
	Weight() decimal.Decimal
}

// Shipment records one dispatched item.
type Shipment struct {
	Name   string
	Weight decimal.Decimal
}

// Dispatcher receives the shippable subset of a completed order.
type Dispatcher interface {
	SendItems(items []Shippable) []Shipment
}

// Service is a stateless Dispatcher. It stands in for a real fulfillment
// integration and only produces shipment records.
type Service struct {
	logger *slog.Logger
}

// NewService creates a shipping service logging through logger.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// SendItems dispatches every item and returns the shipment records in order.
func (s *Service) SendItems(items []Shippable) []Shipment {
	shipments := make([]Shipment, 0, len(items))
	for _, item := range items {
		shipments = append(shipments, Shipment{
			Name:   item.Name(),
			Weight: item.Weight(),
		})
		s.logger.Info("item dispatched",
			slog.String("name", item.Name()),
			slog.String("weight_g", item.Weight().String()),
		)
	}
	return shipments
}
