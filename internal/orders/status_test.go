package orders

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastfood_backend/internal/pricing"
)

func placeTestOrder(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	res, err := PlaceOrder(context.Background(), db, PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Cash",
		Items:         []pricing.ItemRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	return res.OrderID
}

func historyCount(t *testing.T, db *sql.DB, orderID int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM order_status_history WHERE order_id = ?`, orderID).Scan(&n))
	return n
}

func TestChangeStatusAppendsHistory(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	orderID := placeTestOrder(t, db)
	actor := 1

	require.NoError(t, ChangeStatus(context.Background(), db, orderID, StatusPreparing, &actor, "fired to kitchen"))

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM orders WHERE order_id = ?`, orderID).Scan(&status))
	assert.Equal(t, StatusPreparing, status)

	var from, to, note string
	var changedBy int
	require.NoError(t, db.QueryRow(`
		SELECT from_status, to_status, changed_by_user_id, note
		FROM order_status_history WHERE order_id = ?
		ORDER BY history_id DESC LIMIT 1`, orderID).
		Scan(&from, &to, &changedBy, &note))
	assert.Equal(t, StatusNew, from)
	assert.Equal(t, StatusPreparing, to)
	assert.Equal(t, 1, changedBy)
	assert.Equal(t, "fired to kitchen", note)
	assert.Equal(t, 2, historyCount(t, db, orderID))
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	orderID := placeTestOrder(t, db)

	require.NoError(t, ChangeStatus(context.Background(), db, orderID, StatusNew, nil, ""))
	assert.Equal(t, 1, historyCount(t, db, orderID))
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	orderID := placeTestOrder(t, db)

	err := ChangeStatus(context.Background(), db, orderID, "Vaporized", nil, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, 1, historyCount(t, db, orderID))
}

func TestChangeStatusOrderNotFound(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)

	err := ChangeStatus(context.Background(), db, 12345, StatusPreparing, nil, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRecordPaymentUpdatesOrder(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	orderID := placeTestOrder(t, db)

	paymentID, err := RecordPayment(context.Background(), db, orderID, "MoMo", 65000, PaymentStatusPaid, "momo-tx-1")
	require.NoError(t, err)
	assert.Greater(t, paymentID, int64(0))

	var payStatus string
	require.NoError(t, db.QueryRow(`SELECT payment_status FROM orders WHERE order_id = ?`, orderID).Scan(&payStatus))
	assert.Equal(t, PaymentStatusPaid, payStatus)

	var provider, ref string
	var amount float64
	require.NoError(t, db.QueryRow(`
		SELECT provider, amount, transaction_ref FROM payments WHERE payment_id = ?`, paymentID).
		Scan(&provider, &amount, &ref))
	assert.Equal(t, "MoMo", provider)
	assert.Equal(t, 65000.0, amount)
	assert.Equal(t, "momo-tx-1", ref)

	_, err = RecordPayment(context.Background(), db, 99999, "MoMo", 100, PaymentStatusPaid, "x")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSetPaymentStatus(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	orderID := placeTestOrder(t, db)

	require.NoError(t, SetPaymentStatus(context.Background(), db, orderID, PaymentStatusRefunded))

	var payStatus string
	require.NoError(t, db.QueryRow(`SELECT payment_status FROM orders WHERE order_id = ?`, orderID).Scan(&payStatus))
	assert.Equal(t, PaymentStatusRefunded, payStatus)

	var payments int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM payments WHERE order_id = ?`, orderID).Scan(&payments))
	assert.Equal(t, 0, payments)

	assert.ErrorIs(t, SetPaymentStatus(context.Background(), db, 99999, PaymentStatusPaid), ErrOrderNotFound)
}
