// Package pricing computes checkout quotes: per-item snapshots, subtotal,
// promo and combo discounts, delivery fee and grand total. It is pure
// computation over the catalog and promo views it is given — it never
// writes anything. Promo usage accounting happens in the order
// transaction, after the quote has been accepted.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DeliveryFee is a flat per-order fee, charged only on non-empty orders.
const DeliveryFee = 15000

// Promo discount types.
const (
	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")

	ErrPromoNotFound  = errors.New("promo code not found")
	ErrPromoInactive  = errors.New("promo code inactive")
	ErrPromoExpired   = errors.New("promo code expired")
	ErrPromoExhausted = errors.New("promo code usage limit reached")
)

// Product is the catalog view the engine prices against.
type Product struct {
	Name        string
	Price       float64
	StockQty    int
	IsAvailable bool
}

// Promo is the discount rule attached to a code.
type Promo struct {
	Code       string
	Type       string
	Value      float64
	UsageLimit *int // nil = unlimited
	UsedCount  int
	ExpiresAt  time.Time
	IsActive   bool
}

// ProductCatalog is the read-only product lookup. Implementations return
// ErrProductNotFound for unknown ids.
type ProductCatalog interface {
	Product(ctx context.Context, productID int) (Product, error)
}

// PromoStore looks up a promo code's rule. Implementations return
// ErrPromoNotFound for unknown codes. Codes are matched uppercased.
type PromoStore interface {
	Promo(ctx context.Context, code string) (Promo, error)
}

// ItemRequest is one raw (product, quantity) pair from a checkout request.
type ItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

// QuoteItem is the per-line snapshot persisted with the order.
type QuoteItem struct {
	ProductID int
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// Quote is the full pricing result for one checkout.
type Quote struct {
	Items         []QuoteItem
	SubTotal      float64
	DiscountTotal float64
	DeliveryFee   float64
	GrandTotal    float64
	// PromoCode is the normalized code that was actually applied, "" if none.
	PromoCode string
}

// NormalizeItems merges duplicate product ids by summing quantities.
// Any raw quantity <= 0 is rejected before merging.
func NormalizeItems(items []ItemRequest) (map[int]int, error) {
	merged := make(map[int]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
		merged[item.ProductID] += item.Quantity
	}
	return merged, nil
}

// NormalizePromoCode trims and uppercases a raw promo code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ComputeQuote validates every line against the catalog, applies the promo
// code and combo discount, and returns the totals. Items are priced in
// ascending product-id order so the persisted snapshot is deterministic.
func ComputeQuote(ctx context.Context, catalog ProductCatalog, promos PromoStore, items map[int]int, promoCode string, comboDiscount float64) (Quote, error) {
	var quote Quote

	ids := make([]int, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		qty := items[id]
		if qty <= 0 {
			return Quote{}, fmt.Errorf("%w: product %d", ErrInvalidQuantity, id)
		}

		product, err := catalog.Product(ctx, id)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return Quote{}, fmt.Errorf("%w: product %d", ErrProductNotFound, id)
			}
			return Quote{}, err
		}
		if !product.IsAvailable {
			return Quote{}, fmt.Errorf("%w: product %d", ErrProductUnavailable, id)
		}
		if qty > product.StockQty {
			return Quote{}, fmt.Errorf("%w: product %d (requested %d, available %d)", ErrInsufficientStock, id, qty, product.StockQty)
		}
		if product.Price < 0 {
			return Quote{}, fmt.Errorf("%w: product %d", ErrInvalidPrice, id)
		}

		lineTotal := product.Price * float64(qty)
		quote.Items = append(quote.Items, QuoteItem{
			ProductID: id,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
		quote.SubTotal += lineTotal
	}

	code := NormalizePromoCode(promoCode)
	if code != "" {
		discount, err := promoDiscount(ctx, promos, code, quote.SubTotal)
		if err != nil {
			return Quote{}, err
		}
		quote.DiscountTotal = discount
		quote.PromoCode = code
	}

	if comboDiscount > 0 {
		quote.DiscountTotal += comboDiscount
	}
	// Discounts can never push the total below zero.
	if quote.DiscountTotal > quote.SubTotal {
		quote.DiscountTotal = quote.SubTotal
	}

	if len(quote.Items) > 0 {
		quote.DeliveryFee = DeliveryFee
	}
	quote.GrandTotal = quote.SubTotal - quote.DiscountTotal + quote.DeliveryFee

	return quote, nil
}

func promoDiscount(ctx context.Context, promos PromoStore, code string, subTotal float64) (float64, error) {
	promo, err := promos.Promo(ctx, code)
	if err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrPromoNotFound, code)
		}
		return 0, err
	}

	if !promo.IsActive {
		return 0, fmt.Errorf("%w: %s", ErrPromoInactive, code)
	}
	if promo.ExpiresAt.Before(time.Now()) {
		return 0, fmt.Errorf("%w: %s", ErrPromoExpired, code)
	}
	if promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit {
		return 0, fmt.Errorf("%w: %s", ErrPromoExhausted, code)
	}

	var discount float64
	switch promo.Type {
	case PromoTypePercentage:
		// Rounded to the whole currency unit, capped at the subtotal.
		discount = math.Round(subTotal * promo.Value / 100)
		if discount > subTotal {
			discount = subTotal
		}
	case PromoTypeFixed:
		discount = math.Min(promo.Value, subTotal)
	}

	return discount, nil
}
