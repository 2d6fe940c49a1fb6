package catalog

import "errors"

// Sentinel errors for catalog operations. Callers match them with errors.Is
// regardless of wrapping.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductExpired    = errors.New("product expired")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAmount     = errors.New("invalid amount")
)
