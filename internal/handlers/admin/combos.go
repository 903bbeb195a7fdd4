package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/utils"
)

type comboRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active"`
	Items       []struct {
		ProductID int `json:"product_id" binding:"required"`
		Quantity  int `json:"quantity" binding:"required"`
	} `json:"items"`
}

func CreateCombo(c *gin.Context) {
	var req comboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo data"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	tx, err := database.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO combos (name, description, price, image_url, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.Price,
		nullable(req.ImageURL), req.IsActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create combo"})
		return
	}
	id, _ := res.LastInsertId()

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo item quantity"})
			return
		}
		if _, err := tx.Exec(`INSERT INTO combo_items (combo_id, product_id, quantity) VALUES (?, ?, ?)`,
			id, item.ProductID, item.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo item"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create combo"})
		return
	}

	utils.LogAction(c, utils.ActionComboCreate, utils.EntityCombo, id, nil, req)
	c.JSON(http.StatusCreated, gin.H{"combo_id": id})
}

func UpdateCombo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo id"})
		return
	}

	var req comboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo data"})
		return
	}

	tx, err := database.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE combos SET name = ?, description = ?, price = ?, image_url = ?, is_active = ?
		WHERE combo_id = ?`,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.Price,
		nullable(req.ImageURL), req.IsActive, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update combo"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}

	// Combo contents are replaced wholesale.
	if req.Items != nil {
		if _, err := tx.Exec(`DELETE FROM combo_items WHERE combo_id = ?`, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update combo"})
			return
		}
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo item quantity"})
				return
			}
			if _, err := tx.Exec(`INSERT INTO combo_items (combo_id, product_id, quantity) VALUES (?, ?, ?)`,
				id, item.ProductID, item.Quantity); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo item"})
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update combo"})
		return
	}

	utils.LogAction(c, utils.ActionComboUpdate, utils.EntityCombo, id, nil, req)
	c.Status(http.StatusNoContent)
}

func DeleteCombo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo id"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM combos WHERE combo_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete combo"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}

	utils.LogAction(c, utils.ActionComboDelete, utils.EntityCombo, id, nil, nil)
	c.Status(http.StatusNoContent)
}
