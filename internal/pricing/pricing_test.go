package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[int]Product

func (f fakeCatalog) Product(_ context.Context, id int) (Product, error) {
	p, ok := f[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

type fakePromos map[string]Promo

func (f fakePromos) Promo(_ context.Context, code string) (Promo, error) {
	p, ok := f[code]
	if !ok {
		return Promo{}, ErrPromoNotFound
	}
	return p, nil
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		1: {Name: "Classic Burger", Price: 50000, StockQty: 10, IsAvailable: true},
		2: {Name: "Fries", Price: 20000, StockQty: 5, IsAvailable: true},
		3: {Name: "Seasonal Shake", Price: 30000, StockQty: 3, IsAvailable: false},
	}
}

func TestComputeQuoteNoPromo(t *testing.T) {
	quote, err := ComputeQuote(context.Background(), testCatalog(), fakePromos{}, map[int]int{1: 2}, "", 0)
	require.NoError(t, err)

	assert.Equal(t, 100000.0, quote.SubTotal)
	assert.Equal(t, 0.0, quote.DiscountTotal)
	assert.Equal(t, 15000.0, quote.DeliveryFee)
	assert.Equal(t, 115000.0, quote.GrandTotal)
	require.Len(t, quote.Items, 1)
	assert.Equal(t, "Classic Burger", quote.Items[0].Name)
	assert.Equal(t, 100000.0, quote.Items[0].LineTotal)
}

func TestComputeQuotePercentagePromo(t *testing.T) {
	promos := fakePromos{
		"SALE10": {Code: "SALE10", Type: PromoTypePercentage, Value: 10, ExpiresAt: time.Now().Add(time.Hour), IsActive: true},
	}

	quote, err := ComputeQuote(context.Background(), testCatalog(), promos, map[int]int{1: 2}, "sale10", 0)
	require.NoError(t, err)

	assert.Equal(t, 100000.0, quote.SubTotal)
	assert.Equal(t, 10000.0, quote.DiscountTotal)
	assert.Equal(t, 105000.0, quote.GrandTotal)
	assert.Equal(t, "SALE10", quote.PromoCode)
}

func TestComputeQuoteFixedPromoCappedAtSubtotal(t *testing.T) {
	promos := fakePromos{
		"BIGOFF": {Code: "BIGOFF", Type: PromoTypeFixed, Value: 200000, ExpiresAt: time.Now().Add(time.Hour), IsActive: true},
	}

	quote, err := ComputeQuote(context.Background(), testCatalog(), promos, map[int]int{1: 1}, "BIGOFF", 0)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, quote.SubTotal)
	assert.Equal(t, 50000.0, quote.DiscountTotal)
	assert.Equal(t, 15000.0, quote.GrandTotal)
}

func TestComputeQuoteComboDiscountAddsAndCaps(t *testing.T) {
	quote, err := ComputeQuote(context.Background(), testCatalog(), fakePromos{}, map[int]int{2: 1}, "", 5000)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, quote.DiscountTotal)
	assert.Equal(t, 30000.0, quote.GrandTotal)

	quote, err = ComputeQuote(context.Background(), testCatalog(), fakePromos{}, map[int]int{2: 1}, "", 99999)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, quote.DiscountTotal)
	assert.Equal(t, 15000.0, quote.GrandTotal)
}

func TestComputeQuoteErrors(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()
	promos := fakePromos{
		"OLD": {Code: "OLD", Type: PromoTypeFixed, Value: 1000, ExpiresAt: time.Now().Add(-time.Hour), IsActive: true},
		"OFF": {Code: "OFF", Type: PromoTypeFixed, Value: 1000, ExpiresAt: time.Now().Add(time.Hour), IsActive: false},
		"MAX": {Code: "MAX", Type: PromoTypeFixed, Value: 1000, ExpiresAt: time.Now().Add(time.Hour), IsActive: true,
			UsageLimit: intPtr(5), UsedCount: 5},
	}

	_, err := ComputeQuote(ctx, catalog, promos, map[int]int{99: 1}, "", 0)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{3: 1}, "", 0)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{2: 6}, "", 0)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{1: 0}, "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{1: 1}, "NOPE", 0)
	assert.ErrorIs(t, err, ErrPromoNotFound)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{1: 1}, "OLD", 0)
	assert.ErrorIs(t, err, ErrPromoExpired)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{1: 1}, "OFF", 0)
	assert.ErrorIs(t, err, ErrPromoInactive)

	_, err = ComputeQuote(ctx, catalog, promos, map[int]int{1: 1}, "MAX", 0)
	assert.ErrorIs(t, err, ErrPromoExhausted)
}

func TestNormalizeItemsMergesDuplicates(t *testing.T) {
	merged, err := NormalizeItems([]ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 5, 2: 1}, merged)

	_, err = NormalizeItems([]ItemRequest{{ProductID: 1, Quantity: -1}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SALE10", NormalizePromoCode("  sale10 "))
	assert.Equal(t, "", NormalizePromoCode("   "))
}

func intPtr(n int) *int { return &n }
