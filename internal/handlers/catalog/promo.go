package catalog

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/orders"
	"fastfood_backend/internal/pricing"
)

// ValidatePromo is a read-only pre-checkout check. It never increments
// usage — that happens once, inside the placement transaction.
func ValidatePromo(c *gin.Context) {
	code := pricing.NormalizePromoCode(c.Query("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	var promoType string
	var value float64
	var usageLimit sql.NullInt64
	var usedCount int
	var expiresAt string
	var active int
	err := database.DB.QueryRow(`
		SELECT type, value, usage_limit, used_count, expires_at, is_active
		FROM promo_codes WHERE code = ?`, code).
		Scan(&promoType, &value, &usageLimit, &usedCount, &expiresAt, &active)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code does not exist"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if active == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is suspended"})
		return
	}
	if expires, err := orders.ParseDBTime(expiresAt); err == nil && expires.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code has expired"})
		return
	}
	if usageLimit.Valid && int64(usedCount) >= usageLimit.Int64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code usage limit reached"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code, "type": promoType, "value": value})
}
