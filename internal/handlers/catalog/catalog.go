package catalog

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
)

func ListCategories(c *gin.Context) {
	rows, err := database.DB.Query(`SELECT category_id, name, description FROM categories ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}

// ListProducts supports optional filters: search (name substring),
// category_id, min_price, max_price, available.
func ListProducts(c *gin.Context) {
	query := `SELECT product_id, category_id, name, description, price, stock_qty, is_available, image_url, topic_tag
	          FROM products WHERE 1=1`
	args := []interface{}{}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+search+"%")
	}
	if catID := c.Query("category_id"); catID != "" {
		id, err := strconv.Atoi(catID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}
		query += ` AND category_id = ?`
		args = append(args, id)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		v, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
			return
		}
		query += ` AND price >= ?`
		args = append(args, v)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		query += ` AND price <= ?`
		args = append(args, v)
	}
	if avail := c.Query("available"); avail != "" {
		query += ` AND is_available = ?`
		args = append(args, avail == "1" || avail == "true")
	}
	query += ` ORDER BY name`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	row := database.DB.QueryRow(`
		SELECT product_id, category_id, name, description, price, stock_qty, is_available, image_url, topic_tag
		FROM products WHERE product_id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func ListCombos(c *gin.Context) {
	rows, err := database.DB.Query(`
		SELECT combo_id, name, description, price, image_url, is_active FROM combos ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	combos := []models.Combo{}
	for rows.Next() {
		var combo models.Combo
		var active int
		if err := rows.Scan(&combo.ID, &combo.Name, &combo.Description, &combo.Price, &combo.ImageURL, &active); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		combo.IsActive = active != 0
		combos = append(combos, combo)
	}

	c.JSON(http.StatusOK, combos)
}

func GetCombo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo id"})
		return
	}

	var combo models.Combo
	var active int
	err = database.DB.QueryRow(`
		SELECT combo_id, name, description, price, image_url, is_active FROM combos WHERE combo_id = ?`, id).
		Scan(&combo.ID, &combo.Name, &combo.Description, &combo.Price, &combo.ImageURL, &active)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	combo.IsActive = active != 0

	c.JSON(http.StatusOK, combo)
}

func GetComboItems(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid combo id"})
		return
	}

	rows, err := database.DB.Query(`
		SELECT ci.product_id, p.name, ci.quantity
		FROM combo_items ci
		JOIN products p ON p.product_id = ci.product_id
		WHERE ci.combo_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	items := []models.ComboItem{}
	for rows.Next() {
		var item models.ComboItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var available int
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
		&p.StockQty, &available, &p.ImageURL, &p.TopicTag)
	if err != nil {
		return models.Product{}, err
	}
	p.IsAvailable = available != 0
	return p, nil
}
