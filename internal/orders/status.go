package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Order statuses. New orders start at StatusNew; Delivered and Cancelled
// are terminal by convention. The machine validates membership only: any
// recognized status is reachable from any other, which mirrors how the
// kitchen dashboard actually uses it (corrections included).
const (
	StatusNew            = "New"
	StatusPreparing      = "Preparing"
	StatusOutForDelivery = "OutForDelivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// Payment statuses the order row tracks.
const (
	PaymentStatusProcessing = "Processing"
	PaymentStatusPaid       = "Paid"
	PaymentStatusFailed     = "Failed"
	PaymentStatusRefunded   = "Refunded"
)

var orderStatuses = map[string]struct{}{
	StatusNew:            {},
	StatusPreparing:      {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

var paymentMethods = map[string]struct{}{
	"Cash":   {},
	"Card":   {},
	"MoMo":   {},
	"VNPay":  {},
	"ZaloPay": {},
}

// ValidStatus reports whether s is a recognized order status.
func ValidStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

// ValidPaymentMethod reports whether m is an allowed payment method.
func ValidPaymentMethod(m string) bool {
	_, ok := paymentMethods[m]
	return ok
}

// ChangeStatus moves an order to a recognized status and appends one
// history row, atomically. Re-applying the current status is a no-op:
// no update, no history row.
func ChangeStatus(ctx context.Context, db *sql.DB, orderID int64, toStatus string, actorUserID *int, note string) error {
	if !ValidStatus(toStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, toStatus)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status change: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE order_id = ?`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("read order status: %w", err)
	}

	if current == toStatus {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE order_id = ?`, toStatus, orderID); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	var actor sql.NullInt64
	if actorUserID != nil {
		actor = sql.NullInt64{Int64: int64(*actorUserID), Valid: true}
	}
	noteVal := sql.NullString{String: note, Valid: note != ""}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_by_user_id, note)
		VALUES (?, ?, ?, ?, ?)`,
		orderID, current, toStatus, actor, noteVal); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}

	return tx.Commit()
}

// RecordPayment appends one payments row for an attempt and updates the
// order's current payment status, atomically. The ledger itself is
// append-only: one row per attempt, the order field reflects the latest.
func RecordPayment(ctx context.Context, db *sql.DB, orderID int64, provider string, amount float64, status, transactionRef string) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin payment: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE order_id = ?`, orderID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrOrderNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("check order: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO payments (order_id, provider, amount, status, transaction_ref)
		VALUES (?, ?, ?, ?, ?)`,
		orderID, provider, amount, status, transactionRef)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	paymentID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET payment_status = ? WHERE order_id = ?`, status, orderID); err != nil {
		return 0, fmt.Errorf("update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return paymentID, nil
}

// SetPaymentStatus overrides the order's payment status without adding a
// ledger row (admin correction path).
func SetPaymentStatus(ctx context.Context, db *sql.DB, orderID int64, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE orders SET payment_status = ? WHERE order_id = ?`, status, orderID)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
