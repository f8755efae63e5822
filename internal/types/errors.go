package types

import "errors"

// Sentinel errors for the trading system.
var (
	// Admission failures (non-retryable, terminate without side effects)
	ErrQuantityTooSmall  = errors.New("computed quantity below one unit")
	ErrInsufficientFunds = errors.New("insufficient funds for position size")
	ErrDepthRejected     = errors.New("order book depth check failed")
	ErrShortNotAllowed   = errors.New("short side not allowed")

	// Order errors
	ErrInvalidPrice    = errors.New("invalid price value")
	ErrInvalidQuantity = errors.New("invalid order quantity")

	// Resource errors
	ErrSlotOverRelease = errors.New("slot released more times than acquired")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidSymbol = errors.New("invalid symbol")
)
