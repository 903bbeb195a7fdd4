package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
)

// Carts live in Redis as a JSON array under cart:<userID>. They are a
// convenience for the UI; checkout re-validates everything against the
// catalog inside the order transaction.

func cartKey(userID int) string {
	return "cart:" + strconv.Itoa(userID)
}

func loadCart(ctx context.Context, userID int) ([]models.CartItem, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		return []models.CartItem{}, nil
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func saveCart(ctx context.Context, userID int, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, cartKey(userID), data, 0).Err()
}

func GetCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	items, err := loadCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func AddToCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	var input struct {
		ProductID int `json:"product_id" binding:"required"`
		Quantity  int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	var name string
	var price float64
	var stock, available int
	err := database.DB.QueryRow(`
		SELECT name, price, stock_qty, is_available FROM products WHERE product_id = ?`, input.ProductID).
		Scan(&name, &price, &stock, &available)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if available == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product not available"})
		return
	}

	ctx := c.Request.Context()
	items, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}

	found := false
	for i := range items {
		if items[i].ProductID == input.ProductID {
			items[i].Quantity += input.Quantity
			items[i].Name = name
			items[i].Price = price
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ProductID: input.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  input.Quantity,
		})
	}

	if err := saveCart(ctx, userID, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func RemoveFromCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()
	items, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if err := saveCart(ctx, userID, kept); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": kept})
}

func ClearCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := database.Redis.Del(c.Request.Context(), cartKey(userID)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
}
