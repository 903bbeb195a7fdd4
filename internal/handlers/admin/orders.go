package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/orders"
	"fastfood_backend/internal/utils"
)

func ListOrders(c *gin.Context) {
	query := `
		SELECT o.order_id, o.order_code, o.user_id, o.status, o.payment_method, o.payment_status,
		       o.sub_total, o.discount_total, o.delivery_fee, o.grand_total,
		       o.promo_code, o.note, o.created_at
		FROM orders o`
	args := []interface{}{}

	if status := c.Query("status"); status != "" {
		if !orders.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
			return
		}
		query += ` WHERE o.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC, o.order_id DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	list := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderCode, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
			&o.SubTotal, &o.DiscountTotal, &o.DeliveryFee, &o.GrandTotal,
			&o.PromoCode, &o.Note, &o.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		list = append(list, o)
	}

	c.JSON(http.StatusOK, list)
}

// UpdateOrderStatus moves an order through the kitchen workflow. The
// acting admin is recorded in the status history and the audit trail.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	var actor *int
	if v, ok := c.Get("user_id"); ok {
		if uid, ok := v.(int); ok {
			actor = &uid
		}
	}

	err = orders.ChangeStatus(c.Request.Context(), database.DB, id, req.Status, actor, req.Note)
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	utils.LogAction(c, utils.ActionOrderStatusChange, utils.EntityOrder, id, nil, gin.H{"status": req.Status, "note": req.Note})
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// UpdatePaymentStatus is the manual override used when a provider
// callback never arrived. It does not touch the payments ledger.
func UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment status is required"})
		return
	}
	if !validPaymentStatus(req.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment status"})
		return
	}

	err = orders.SetPaymentStatus(c.Request.Context(), database.DB, id, req.PaymentStatus)
	if errors.Is(err, orders.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	utils.LogAction(c, utils.ActionOrderPaymentChange, utils.EntityOrder, id, nil, gin.H{"payment_status": req.PaymentStatus})
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

// RecordPayment appends a payment attempt to the ledger. When the caller
// has no provider reference (cash at the counter) one is generated.
func RecordPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Provider       string  `json:"provider" binding:"required"`
		Amount         float64 `json:"amount" binding:"required,gt=0"`
		Status         string  `json:"status" binding:"required"`
		TransactionRef string  `json:"transaction_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment data"})
		return
	}
	if !validPaymentStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment status"})
		return
	}

	ref := req.TransactionRef
	if ref == "" {
		ref = uuid.NewString()
	}

	paymentID, err := orders.RecordPayment(c.Request.Context(), database.DB, id, req.Provider, req.Amount, req.Status, ref)
	if errors.Is(err, orders.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	utils.LogAction(c, utils.ActionOrderPaymentChange, utils.EntityOrder, id, nil,
		gin.H{"payment_id": paymentID, "provider": req.Provider, "amount": req.Amount, "status": req.Status})
	c.JSON(http.StatusCreated, gin.H{"payment_id": paymentID, "transaction_ref": ref})
}

func validPaymentStatus(s string) bool {
	switch s {
	case orders.PaymentStatusProcessing, orders.PaymentStatusPaid, orders.PaymentStatusFailed, orders.PaymentStatusRefunded:
		return true
	}
	return false
}
