package models

type Order struct {
	ID            int64   `json:"id"`
	UserID        int     `json:"user_id"`
	OrderCode     string  `json:"order_code"`
	Status        string  `json:"status"`
	SubTotal      float64 `json:"sub_total"`
	DiscountTotal float64 `json:"discount_total"`
	DeliveryFee   float64 `json:"delivery_fee"`
	GrandTotal    float64 `json:"grand_total"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method"`
	PromoCode     *string `json:"promo_code,omitempty"`
	Note          *string `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// OrderItem is an immutable snapshot: name and unit price are copied from
// the product at placement time so later catalog edits never change
// historical orders.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type OrderStatusHistory struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	FromStatus      string  `json:"from_status"`
	ToStatus        string  `json:"to_status"`
	ChangedByUserID *int    `json:"changed_by_user_id,omitempty"`
	ChangedAt       string  `json:"changed_at"`
	Note            *string `json:"note,omitempty"`
}

type Payment struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	Provider       string  `json:"provider"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	TransactionRef string  `json:"transaction_ref"`
	PaidAt         string  `json:"paid_at"`
}
