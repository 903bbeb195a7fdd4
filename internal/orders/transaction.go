// Package orders owns the correctness-critical order operations: the
// placement transaction, the status machine and the payments ledger.
// Everything here runs against SQLite through database/sql; transactions
// are opened with the immediate write lock (see internal/database), so
// stock decrements and promo increments cannot lose updates under
// concurrent checkouts.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fastfood_backend/internal/pricing"
)

// PlaceOrderInput is one checkout request, already authenticated.
type PlaceOrderInput struct {
	UserID         int
	PaymentMethod  string
	PromoCode      string
	ComboDiscount  float64
	Note           string
	IdempotencyKey string
	Items          []pricing.ItemRequest
}

// PlaceOrderResult identifies the created (or previously created) order.
type PlaceOrderResult struct {
	OrderID   int64
	OrderCode string
	// Existing is true when the idempotency key matched an earlier order
	// and nothing was written.
	Existing bool
}

// PlaceOrder atomically places an order:
//
//  1. idempotency-key lookup — a retried request returns the original order
//  2. user existence / active check
//  3. pricing (validation + snapshot quote) via the in-transaction catalog
//  4. promo used_count increment, exactly once
//  5. order + items + guarded stock decrements + initial history row
//
// All of it happens in one immediate transaction; any failure rolls back
// every write. Input-shape errors (empty order, bad payment method) are
// rejected before the transaction starts.
func PlaceOrder(ctx context.Context, db *sql.DB, in PlaceOrderInput) (PlaceOrderResult, error) {
	if len(in.Items) == 0 {
		return PlaceOrderResult{}, ErrEmptyOrder
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if !ValidPaymentMethod(method) {
		return PlaceOrderResult{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}
	merged, err := pricing.NormalizeItems(in.Items)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	comboDiscount := in.ComboDiscount
	if comboDiscount < 0 {
		comboDiscount = 0
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}
	defer tx.Rollback()

	// Dedup inside the same transaction as the insert: two retries carrying
	// the same key serialize on the write lock, so the second one sees the
	// first one's row here (and the UNIQUE index backstops the rest).
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		var existing PlaceOrderResult
		err := tx.QueryRowContext(ctx,
			`SELECT order_id, order_code FROM orders WHERE idempotency_key = ?`, key).
			Scan(&existing.OrderID, &existing.OrderCode)
		if err == nil {
			existing.Existing = true
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
		}
	}

	var isActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_active FROM users WHERE user_id = ?`, in.UserID).Scan(&isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return PlaceOrderResult{}, ErrUserNotFound
	}
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}
	if !isActive {
		return PlaceOrderResult{}, ErrUserLocked
	}

	quote, err := pricing.ComputeQuote(ctx, txCatalog{tx}, txPromoStore{tx}, merged, in.PromoCode, comboDiscount)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if quote.PromoCode != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE promo_codes SET used_count = used_count + 1 WHERE code = ?`, quote.PromoCode); err != nil {
			return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
		}
	}

	result := PlaceOrderResult{OrderCode: NewOrderCode()}

	promoVal := sql.NullString{String: quote.PromoCode, Valid: quote.PromoCode != ""}
	noteVal := sql.NullString{String: in.Note, Valid: in.Note != ""}
	keyVal := sql.NullString{String: key, Valid: key != ""}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, order_code, status, sub_total, discount_total, delivery_fee,
		                    grand_total, payment_status, payment_method, promo_code, note, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, result.OrderCode, StatusNew,
		quote.SubTotal, quote.DiscountTotal, quote.DeliveryFee, quote.GrandTotal,
		PaymentStatusProcessing, method, promoVal, noteVal, keyVal)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}
	result.OrderID, err = res.LastInsertId()
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}

	for _, item := range quote.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name_snapshot, unit_price_snapshot, quantity, line_total)
			VALUES (?, ?, ?, ?, ?, ?)`,
			result.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal); err != nil {
			return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
		}

		// Guarded decrement: zero rows affected means someone drained the
		// stock between the quote and here (can only happen across retries
		// of this transaction, never mid-transaction).
		dec, err := tx.ExecContext(ctx, `
			UPDATE products SET stock_qty = stock_qty - ?
			WHERE product_id = ? AND stock_qty >= ?`,
			item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
		}
		if n, err := dec.RowsAffected(); err != nil || n == 0 {
			return PlaceOrderResult{}, fmt.Errorf("%w: product %d", pricing.ErrInsufficientStock, item.ProductID)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_by_user_id, note)
		VALUES (?, ?, ?, NULL, NULL)`,
		result.OrderID, StatusNew, StatusNew); err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return PlaceOrderResult{}, fmt.Errorf("%w: %v", ErrPlacementFailed, err)
	}
	return result, nil
}

// txCatalog adapts the open transaction to pricing.ProductCatalog so the
// quote reads the same snapshot the decrements will write.
type txCatalog struct {
	tx *sql.Tx
}

func (c txCatalog) Product(ctx context.Context, productID int) (pricing.Product, error) {
	var p pricing.Product
	var available int
	err := c.tx.QueryRowContext(ctx,
		`SELECT name, price, stock_qty, is_available FROM products WHERE product_id = ?`, productID).
		Scan(&p.Name, &p.Price, &p.StockQty, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Product{}, pricing.ErrProductNotFound
	}
	if err != nil {
		return pricing.Product{}, fmt.Errorf("read product %d: %w", productID, err)
	}
	p.IsAvailable = available != 0
	return p, nil
}

type txPromoStore struct {
	tx *sql.Tx
}

func (s txPromoStore) Promo(ctx context.Context, code string) (pricing.Promo, error) {
	var promo pricing.Promo
	var limit sql.NullInt64
	var expiresAt string
	var active int
	err := s.tx.QueryRowContext(ctx,
		`SELECT code, type, value, usage_limit, used_count, expires_at, is_active
		 FROM promo_codes WHERE code = ?`, code).
		Scan(&promo.Code, &promo.Type, &promo.Value, &limit, &promo.UsedCount, &expiresAt, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Promo{}, pricing.ErrPromoNotFound
	}
	if err != nil {
		return pricing.Promo{}, fmt.Errorf("read promo %s: %w", code, err)
	}
	if limit.Valid {
		l := int(limit.Int64)
		promo.UsageLimit = &l
	}
	promo.ExpiresAt, err = ParseDBTime(expiresAt)
	if err != nil {
		return pricing.Promo{}, fmt.Errorf("promo %s expiry: %w", code, err)
	}
	promo.IsActive = active != 0
	return promo, nil
}
