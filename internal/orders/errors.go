package orders

import "errors"

var (
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserLocked           = errors.New("user account locked")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid order status")

	// ErrPlacementFailed wraps any unexpected failure inside the placement
	// transaction. The caller surfaces it generically, without internals.
	ErrPlacementFailed = errors.New("failed to create order")
)
