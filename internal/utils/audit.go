package utils

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
)

// LogAction records an admin mutation in the audit trail. Fire-and-forget:
// audit failures are logged, never surfaced to the request.
func LogAction(c *gin.Context, action, entityName string, entityID int64, oldValue, newValue interface{}) {
	actorID := c.GetInt("user_id")
	ip := c.ClientIP()

	go func() {
		if err := insertAuditLog(actorID, action, entityName, entityID, oldValue, newValue, ip); err != nil {
			log.Printf("❌ Audit log write failed: %v", err)
		}
	}()
}

func insertAuditLog(actorID int, action, entityName string, entityID int64, oldValue, newValue interface{}, ip string) error {
	var oldJSON, newJSON string
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			oldJSON = string(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			newJSON = string(b)
		}
	}

	_, err := database.DB.Exec(`
		INSERT INTO audit_log (actor_user_id, action, entity_name, entity_id, old_values_json, new_values_json, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		actorID, action, entityName, entityID, oldJSON, newJSON, ip)
	return err
}

// Audit actions.
const (
	ActionCategoryCreate = "category.create"
	ActionCategoryUpdate = "category.update"
	ActionCategoryDelete = "category.delete"

	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"

	ActionComboCreate = "combo.create"
	ActionComboUpdate = "combo.update"
	ActionComboDelete = "combo.delete"

	ActionPromoCreate = "promo.create"
	ActionPromoUpdate = "promo.update"
	ActionPromoDelete = "promo.delete"

	ActionUserCreate     = "user.create"
	ActionUserUpdate     = "user.update"
	ActionUserDelete     = "user.delete"
	ActionUserRoleChange = "user.role_change"

	ActionOrderStatusChange  = "order.status_change"
	ActionOrderPaymentChange = "order.payment_change"
)

// Audit entities.
const (
	EntityCategory = "category"
	EntityProduct  = "product"
	EntityCombo    = "combo"
	EntityPromo    = "promo"
	EntityUser     = "user"
	EntityOrder    = "order"
)
