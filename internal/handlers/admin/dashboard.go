package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
)

// Revenue sums grand totals per day over a trailing window, skipping
// cancelled orders. Days without sales are simply absent.
func Revenue(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = n
	}

	rows, err := database.DB.Query(`
		SELECT date(created_at) AS day,
		       COUNT(*) AS order_count,
		       SUM(grand_total) AS revenue
		FROM orders
		WHERE status != 'Cancelled'
		  AND created_at >= datetime('now', ?)
		GROUP BY date(created_at)
		ORDER BY day DESC`,
		"-"+strconv.Itoa(days)+" days")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	type dayRevenue struct {
		Day        string  `json:"day"`
		OrderCount int     `json:"order_count"`
		Revenue    float64 `json:"revenue"`
	}
	result := []dayRevenue{}
	var total float64
	for rows.Next() {
		var d dayRevenue
		if err := rows.Scan(&d.Day, &d.OrderCount, &d.Revenue); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		total += d.Revenue
		result = append(result, d)
	}

	c.JSON(http.StatusOK, gin.H{
		"days":          days,
		"total_revenue": total,
		"daily":         result,
	})
}
