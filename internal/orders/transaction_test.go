package orders

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/pricing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "orders_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	return db
}

func seedCatalog(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO users (user_id, full_name, email, password_hash) VALUES
			(1, 'Alice', 'alice@example.com', 'x'),
			(2, 'Locked', 'locked@example.com', 'x');
		UPDATE users SET is_active = 0 WHERE user_id = 2;
		INSERT INTO categories (category_id, name) VALUES (1, 'Burgers');
		INSERT INTO products (product_id, category_id, name, price, stock_qty, is_available) VALUES
			(1, 1, 'Classic Burger', 50000, 10, 1),
			(2, 1, 'Fries', 20000, 3, 1);
		INSERT INTO promo_codes (code, type, value, usage_limit, expires_at, is_active) VALUES
			('SALE10', 'percentage', 10, 100, datetime('now', '+1 day'), 1),
			('BROKEN', 'percentage', 10, NULL, datetime('now', '-1 day'), 1);`)
	require.NoError(t, err)
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)

	res, err := PlaceOrder(context.Background(), db, PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Cash",
		Items: []pricing.ItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.Existing)
	assert.Regexp(t, `^FF-\d{14}-\d{4}$`, res.OrderCode)

	var status, payStatus string
	var sub, disc, fee, grand float64
	require.NoError(t, db.QueryRow(`
		SELECT status, payment_status, sub_total, discount_total, delivery_fee, grand_total
		FROM orders WHERE order_id = ?`, res.OrderID).
		Scan(&status, &payStatus, &sub, &disc, &fee, &grand))
	assert.Equal(t, StatusNew, status)
	assert.Equal(t, PaymentStatusProcessing, payStatus)
	assert.Equal(t, 120000.0, sub)
	assert.Equal(t, 0.0, disc)
	assert.Equal(t, 15000.0, fee)
	assert.Equal(t, 135000.0, grand)

	var items int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, res.OrderID).Scan(&items))
	assert.Equal(t, 2, items)

	var stock1, stock2 int
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 1`).Scan(&stock1))
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 2`).Scan(&stock2))
	assert.Equal(t, 8, stock1)
	assert.Equal(t, 2, stock2)

	var from, to string
	require.NoError(t, db.QueryRow(`
		SELECT from_status, to_status FROM order_status_history WHERE order_id = ?`, res.OrderID).
		Scan(&from, &to))
	assert.Equal(t, StatusNew, from)
	assert.Equal(t, StatusNew, to)
}

func TestPlaceOrderPromoIncrementedOnce(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)

	res, err := PlaceOrder(context.Background(), db, PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Card",
		PromoCode:     " sale10 ",
		Items:         []pricing.ItemRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	var disc, grand float64
	var promo string
	require.NoError(t, db.QueryRow(`
		SELECT discount_total, grand_total, promo_code FROM orders WHERE order_id = ?`, res.OrderID).
		Scan(&disc, &grand, &promo))
	assert.Equal(t, 10000.0, disc)
	assert.Equal(t, 105000.0, grand)
	assert.Equal(t, "SALE10", promo)

	var used int
	require.NoError(t, db.QueryRow(`SELECT used_count FROM promo_codes WHERE code = 'SALE10'`).Scan(&used))
	assert.Equal(t, 1, used)
}

func TestPlaceOrderRollsBackOnExpiredPromo(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)

	_, err := PlaceOrder(context.Background(), db, PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Cash",
		PromoCode:     "BROKEN",
		Items:         []pricing.ItemRequest{{ProductID: 1, Quantity: 2}},
	})
	assert.ErrorIs(t, err, pricing.ErrPromoExpired)

	var orders, stock int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders))
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 1`).Scan(&stock))
	assert.Equal(t, 0, orders)
	assert.Equal(t, 10, stock)
}

func TestPlaceOrderInsufficientStockNoPartialWrites(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)

	_, err := PlaceOrder(context.Background(), db, PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Cash",
		Items: []pricing.ItemRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 4}, // only 3 in stock
		},
	})
	assert.ErrorIs(t, err, pricing.ErrInsufficientStock)

	var orders, items, stock int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&items))
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 1`).Scan(&stock))
	assert.Equal(t, 0, orders)
	assert.Equal(t, 0, items)
	assert.Equal(t, 10, stock)
}

func TestPlaceOrderInputValidation(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	_, err := PlaceOrder(ctx, db, PlaceOrderInput{UserID: 1, PaymentMethod: "Cash"})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = PlaceOrder(ctx, db, PlaceOrderInput{
		UserID: 1, PaymentMethod: "Barter",
		Items: []pricing.ItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = PlaceOrder(ctx, db, PlaceOrderInput{
		UserID: 99, PaymentMethod: "Cash",
		Items: []pricing.ItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = PlaceOrder(ctx, db, PlaceOrderInput{
		UserID: 2, PaymentMethod: "Cash",
		Items: []pricing.ItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrUserLocked)
}

func TestPlaceOrderIdempotentRetry(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	in := PlaceOrderInput{
		UserID:         1,
		PaymentMethod:  "Cash",
		IdempotencyKey: "retry-abc-123",
		Items:          []pricing.ItemRequest{{ProductID: 1, Quantity: 2}},
	}

	first, err := PlaceOrder(ctx, db, in)
	require.NoError(t, err)
	require.False(t, first.Existing)

	second, err := PlaceOrder(ctx, db, in)
	require.NoError(t, err)
	assert.True(t, second.Existing)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.OrderCode, second.OrderCode)

	var orders, stock int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders))
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 1`).Scan(&stock))
	assert.Equal(t, 1, orders)
	assert.Equal(t, 8, stock)
}

// Two concurrent checkouts race for the last unit: exactly one wins, the
// loser sees an insufficient-stock error and writes nothing.
func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	_, err := db.Exec(`UPDATE products SET stock_qty = 1 WHERE product_id = 1`)
	require.NoError(t, err)

	in := PlaceOrderInput{
		UserID:        1,
		PaymentMethod: "Cash",
		Items:         []pricing.ItemRequest{{ProductID: 1, Quantity: 1}},
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = PlaceOrder(context.Background(), db, in)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, pricing.ErrInsufficientStock):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var orders, stock int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders))
	require.NoError(t, db.QueryRow(`SELECT stock_qty FROM products WHERE product_id = 1`).Scan(&stock))
	assert.Equal(t, 1, orders)
	assert.Equal(t, 0, stock)
}
