package order

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/metrics"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/orders"
	"fastfood_backend/internal/pricing"
)

// IdempotencyKeyHeader correlates retried checkout submissions with one
// logical order.
const IdempotencyKeyHeader = "Idempotency-Key"

// Checkout places an order for the authenticated user.
func Checkout(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req struct {
		PaymentMethod string                `json:"payment_method" binding:"required"`
		PromoCode     string                `json:"promo_code"`
		ComboDiscount float64               `json:"combo_discount"`
		Note          string                `json:"note"`
		Items         []pricing.ItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order data", "details": err.Error()})
		return
	}

	start := time.Now()
	result, err := orders.PlaceOrder(c.Request.Context(), database.DB, orders.PlaceOrderInput{
		UserID:         userID,
		PaymentMethod:  req.PaymentMethod,
		PromoCode:      req.PromoCode,
		ComboDiscount:  req.ComboDiscount,
		Note:           req.Note,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		Items:          req.Items,
	})
	metrics.CheckoutDurationMS.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		status, message, reason := placementError(err)
		metrics.OrdersFailed.WithLabelValues(reason).Inc()
		if status == http.StatusInternalServerError {
			log.Printf("❌ Order placement failed for user %d: %v", userID, err)
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	if result.Existing {
		c.JSON(http.StatusOK, gin.H{"order_id": result.OrderID, "order_code": result.OrderCode})
		return
	}

	metrics.OrdersPlaced.Inc()
	log.Printf("✅ Order placed: %s (id=%d) for user %d", result.OrderCode, result.OrderID, userID)

	// The Redis cart is UI state only; clearing it is best-effort.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		database.Redis.Del(ctx, "cart:"+strconv.Itoa(userID))
	}()

	c.JSON(http.StatusCreated, gin.H{"order_id": result.OrderID, "order_code": result.OrderCode})
}

// placementError maps a placement failure to HTTP status, user-facing
// message and a metrics label. Unexpected errors stay generic.
func placementError(err error) (int, string, string) {
	switch {
	case errors.Is(err, orders.ErrEmptyOrder):
		return http.StatusBadRequest, "Order must contain at least one item", "empty_order"
	case errors.Is(err, orders.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, "Invalid payment method", "invalid_payment_method"
	case errors.Is(err, orders.ErrUserNotFound):
		return http.StatusBadRequest, "User not found", "user_not_found"
	case errors.Is(err, orders.ErrUserLocked):
		return http.StatusForbidden, "Account is locked", "user_locked"
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return http.StatusBadRequest, "Invalid quantity", "invalid_quantity"
	case errors.Is(err, pricing.ErrProductNotFound):
		return http.StatusBadRequest, "Product not found", "product_not_found"
	case errors.Is(err, pricing.ErrProductUnavailable):
		return http.StatusBadRequest, "Product is not available", "product_unavailable"
	case errors.Is(err, pricing.ErrInsufficientStock):
		return http.StatusBadRequest, "Insufficient stock", "insufficient_stock"
	case errors.Is(err, pricing.ErrInvalidPrice):
		return http.StatusBadRequest, "Invalid product price", "invalid_price"
	case errors.Is(err, pricing.ErrPromoNotFound):
		return http.StatusBadRequest, "Promo code does not exist", "promo_not_found"
	case errors.Is(err, pricing.ErrPromoInactive):
		return http.StatusBadRequest, "Promo code is suspended", "promo_inactive"
	case errors.Is(err, pricing.ErrPromoExpired):
		return http.StatusBadRequest, "Promo code has expired", "promo_expired"
	case errors.Is(err, pricing.ErrPromoExhausted):
		return http.StatusBadRequest, "Promo code usage limit reached", "promo_exhausted"
	default:
		return http.StatusInternalServerError, "Failed to create order", "internal"
	}
}

// GetOrder returns an order with its item snapshots. Customers can only
// read their own orders; admins can read any.
func GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := readOrder(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if order.UserID != c.GetInt("user_id") && c.GetString("role") != "Admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	items, err := readOrderItems(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	payments, err := readOrderPayments(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "items": items, "payments": payments})
}

// GetOrderHistory returns the append-only status ledger for an order.
func GetOrderHistory(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := readOrder(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if order.UserID != c.GetInt("user_id") && c.GetString("role") != "Admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := database.DB.Query(`
		SELECT history_id, order_id, from_status, to_status, changed_by_user_id, changed_at, note
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY changed_at ASC, history_id ASC`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	history := []models.OrderStatusHistory{}
	for rows.Next() {
		var h models.OrderStatusHistory
		var actor sql.NullInt64
		if err := rows.Scan(&h.ID, &h.OrderID, &h.FromStatus, &h.ToStatus, &actor, &h.ChangedAt, &h.Note); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if actor.Valid {
			id := int(actor.Int64)
			h.ChangedByUserID = &id
		}
		history = append(history, h)
	}

	c.JSON(http.StatusOK, history)
}

// GetMyOrders lists the authenticated user's orders, newest first.
func GetMyOrders(c *gin.Context) {
	userID := c.GetInt("user_id")

	rows, err := database.DB.Query(`
		SELECT order_id, user_id, order_code, status, sub_total, discount_total, delivery_fee,
		       grand_total, payment_status, payment_method, promo_code, note, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, order_id DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	list := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		list = append(list, o)
	}

	c.JSON(http.StatusOK, list)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderCode, &o.Status, &o.SubTotal, &o.DiscountTotal,
		&o.DeliveryFee, &o.GrandTotal, &o.PaymentStatus, &o.PaymentMethod, &o.PromoCode, &o.Note, &o.CreatedAt)
	return o, err
}

func readOrder(orderID int64) (models.Order, error) {
	row := database.DB.QueryRow(`
		SELECT order_id, user_id, order_code, status, sub_total, discount_total, delivery_fee,
		       grand_total, payment_status, payment_method, promo_code, note, created_at
		FROM orders WHERE order_id = ?`, orderID)
	return scanOrder(row)
}

func readOrderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := database.DB.Query(`
		SELECT order_item_id, order_id, product_id, product_name_snapshot, unit_price_snapshot, quantity, line_total
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func readOrderPayments(orderID int64) ([]models.Payment, error) {
	rows, err := database.DB.Query(`
		SELECT payment_id, order_id, provider, amount, status, transaction_ref, paid_at
		FROM payments WHERE order_id = ? ORDER BY payment_id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Provider, &p.Amount, &p.Status,
			&p.TransactionRef, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
