package admin

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/pricing"
	"fastfood_backend/internal/utils"
)

// CreatePromo registers a new promo code. Codes are stored uppercased and
// matched case-insensitively.
func CreatePromo(c *gin.Context) {
	var req struct {
		Code       string    `json:"code" binding:"required"`
		Type       string    `json:"type" binding:"required"` // "percentage", "fixed"
		Value      float64   `json:"value" binding:"required"`
		UsageLimit *int      `json:"usage_limit"`
		ExpiresAt  time.Time `json:"expires_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo data: " + err.Error()})
		return
	}

	if req.Type != pricing.PromoTypePercentage && req.Type != pricing.PromoTypeFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo type"})
		return
	}
	if req.Type == pricing.PromoTypePercentage && (req.Value <= 0 || req.Value > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentage must be between 1 and 100"})
		return
	}
	if req.Type == pricing.PromoTypeFixed && req.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fixed amount must be positive"})
		return
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usage limit must be positive"})
		return
	}

	code := pricing.NormalizePromoCode(req.Code)

	var limit interface{}
	if req.UsageLimit != nil {
		limit = *req.UsageLimit
	}
	_, err := database.DB.Exec(`
		INSERT INTO promo_codes (code, type, value, usage_limit, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		code, req.Type, req.Value, limit, req.ExpiresAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, gin.H{"error": "Promo code already exists"})
			return
		}
		log.Printf("❌ Promo creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promo code"})
		return
	}

	utils.LogAction(c, utils.ActionPromoCreate, utils.EntityPromo, 0, nil, gin.H{"code": code, "type": req.Type, "value": req.Value})
	log.Printf("✅ Promo code created: %s", code)
	c.JSON(http.StatusCreated, gin.H{"code": code})
}

func ListPromos(c *gin.Context) {
	rows, err := database.DB.Query(`
		SELECT code, type, value, usage_limit, used_count, expires_at, is_active
		FROM promo_codes ORDER BY code`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	promos := []models.PromoCode{}
	for rows.Next() {
		var p models.PromoCode
		var limit sql.NullInt64
		var active int
		if err := rows.Scan(&p.Code, &p.Type, &p.Value, &limit, &p.UsedCount, &p.ExpiresAt, &active); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if limit.Valid {
			l := int(limit.Int64)
			p.UsageLimit = &l
		}
		p.IsActive = active != 0
		promos = append(promos, p)
	}

	c.JSON(http.StatusOK, gin.H{"promos": promos, "total": len(promos)})
}

// UpdatePromo toggles activation, changes the limit or pushes the expiry.
// Type and value are immutable once created: orders already priced with a
// code must stay explainable from the stored rule.
func UpdatePromo(c *gin.Context) {
	code := pricing.NormalizePromoCode(c.Param("code"))

	var req struct {
		IsActive   *bool      `json:"is_active"`
		UsageLimit *int       `json:"usage_limit"`
		ExpiresAt  *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo data"})
		return
	}

	updates := []string{}
	values := []interface{}{}
	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}
	if req.UsageLimit != nil {
		updates = append(updates, "usage_limit = ?")
		values = append(values, *req.UsageLimit)
	}
	if req.ExpiresAt != nil {
		updates = append(updates, "expires_at = ?")
		values = append(values, req.ExpiresAt.Format(time.RFC3339))
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updates provided"})
		return
	}
	values = append(values, code)

	res, err := database.DB.Exec(
		`UPDATE promo_codes SET `+strings.Join(updates, ", ")+` WHERE code = ?`, values...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promo code"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	utils.LogAction(c, utils.ActionPromoUpdate, utils.EntityPromo, 0, nil, gin.H{"code": code})
	c.Status(http.StatusNoContent)
}

func DeletePromo(c *gin.Context) {
	code := pricing.NormalizePromoCode(c.Param("code"))

	res, err := database.DB.Exec(`DELETE FROM promo_codes WHERE code = ?`, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promo code"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	utils.LogAction(c, utils.ActionPromoDelete, utils.EntityPromo, 0, nil, gin.H{"code": code})
	c.Status(http.StatusNoContent)
}
