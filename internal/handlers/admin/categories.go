package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/utils"
)

func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category data"})
		return
	}

	res, err := database.DB.Exec(`INSERT INTO categories (name, description) VALUES (?, ?)`,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	id, _ := res.LastInsertId()

	utils.LogAction(c, utils.ActionCategoryCreate, utils.EntityCategory, id, nil, req)
	c.JSON(http.StatusCreated, gin.H{"category_id": id})
}

func UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category data"})
		return
	}

	var old models.Category
	_ = database.DB.QueryRow(`SELECT category_id, name, description FROM categories WHERE category_id = ?`, id).
		Scan(&old.ID, &old.Name, &old.Description)

	res, err := database.DB.Exec(`UPDATE categories SET name = ?, description = ? WHERE category_id = ?`,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	utils.LogAction(c, utils.ActionCategoryUpdate, utils.EntityCategory, id, old, req)
	c.Status(http.StatusNoContent)
}

func DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	utils.LogAction(c, utils.ActionCategoryDelete, utils.EntityCategory, id, nil, nil)
	c.Status(http.StatusNoContent)
}
