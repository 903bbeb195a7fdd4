package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/utils"
)

type productRequest struct {
	CategoryID  int     `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	StockQty    int     `json:"stock_qty"`
	IsAvailable bool    `json:"is_available"`
	ImageURL    string  `json:"image_url"`
	TopicTag    string  `json:"topic_tag"`
}

func CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}
	if req.StockQty < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must not be negative"})
		return
	}

	res, err := database.DB.Exec(`
		INSERT INTO products (category_id, name, description, price, stock_qty, is_available, image_url, topic_tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.CategoryID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description),
		req.Price, req.StockQty, req.IsAvailable, nullable(req.ImageURL), nullable(req.TopicTag))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	id, _ := res.LastInsertId()

	utils.LogAction(c, utils.ActionProductCreate, utils.EntityProduct, id, nil, req)
	c.JSON(http.StatusCreated, gin.H{"product_id": id})
}

func UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}
	if req.Price < 0 || req.StockQty < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must not be negative"})
		return
	}

	var old models.Product
	var available int
	err = database.DB.QueryRow(`
		SELECT product_id, category_id, name, description, price, stock_qty, is_available, image_url, topic_tag
		FROM products WHERE product_id = ?`, id).
		Scan(&old.ID, &old.CategoryID, &old.Name, &old.Description, &old.Price,
			&old.StockQty, &available, &old.ImageURL, &old.TopicTag)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	old.IsAvailable = available != 0

	if _, err := database.DB.Exec(`
		UPDATE products
		SET category_id = ?, name = ?, description = ?, price = ?, stock_qty = ?, is_available = ?, image_url = ?, topic_tag = ?
		WHERE product_id = ?`,
		req.CategoryID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description),
		req.Price, req.StockQty, req.IsAvailable, nullable(req.ImageURL), nullable(req.TopicTag), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	utils.LogAction(c, utils.ActionProductUpdate, utils.EntityProduct, id, old, req)
	c.Status(http.StatusNoContent)
}

func DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	utils.LogAction(c, utils.ActionProductDelete, utils.EntityProduct, id, nil, nil)
	c.Status(http.StatusNoContent)
}

func nullable(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
