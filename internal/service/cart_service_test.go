package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
)

type stubCatalog struct {
	products map[string]model.Product
}

func (c *stubCatalog) Lookup(productID string) (*model.Product, bool) {
	p, ok := c.products[productID]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *stubCatalog) Products() []model.Product { return nil }

func newTestCartService(products map[string]model.Product) CartService {
	return NewCartService(repository.NewMemoryStateStore(), &stubCatalog{products: products}, time.Hour)
}

const profile = "test-profile"

func TestAddToCartIncrements(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	cart, err := svc.AddToCart(ctx, profile, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.CartState{"p1": 1}, cart)

	cart, err = svc.AddToCart(ctx, profile, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.CartState{"p1": 2}, cart)
}

func TestUpdateQuantityZeroRemovesKey(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	_, err := svc.AddToCart(ctx, profile, "p1")
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, profile, "p1")
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, profile, "p1", 0)
	require.NoError(t, err)
	assert.NotContains(t, cart, "p1")

	// The removal persisted, not just in the returned copy.
	cart, err = svc.Cart(ctx, profile)
	require.NoError(t, err)
	assert.NotContains(t, cart, "p1")
}

func TestUpdateQuantitySetsVerbatim(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	cart, err := svc.UpdateQuantity(ctx, profile, "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart["p1"])
}

func TestUpdateQuantityRejectsNegative(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	_, err := svc.UpdateQuantity(ctx, profile, "p1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartCountSumsQuantities(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	_, err := svc.UpdateQuantity(ctx, profile, "p1", 2)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, profile, "p2", 3)
	require.NoError(t, err)

	count, err := svc.CartCount(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartCountEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	count, err := svc.CartCount(ctx, profile)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartAmountFloorsToCents(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(map[string]model.Product{
		"p1": {ID: "p1", OfferPrice: 19.99},
		"p2": {ID: "p2", OfferPrice: 0.10},
	})

	_, err := svc.UpdateQuantity(ctx, profile, "p1", 3)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, profile, "p2", 3)
	require.NoError(t, err)

	amount, err := svc.CartAmount(ctx, profile)
	require.NoError(t, err)
	// 3*19.99 + 3*0.10 = 60.27; binary float drift must never round up.
	assert.Equal(t, 60.27, amount)
}

func TestCartAmountMissingProductFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(map[string]model.Product{})

	_, err := svc.AddToCart(ctx, profile, "ghost")
	require.NoError(t, err)

	_, err = svc.CartAmount(ctx, profile)
	assert.ErrorIs(t, err, ErrProductNotInCatalog)
}

func TestWishlistToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	wishlist, err := svc.ToggleWishlist(ctx, profile, "p1")
	require.NoError(t, err)
	assert.True(t, wishlist.Contains("p1"))

	wishlist, err = svc.ToggleWishlist(ctx, profile, "p1")
	require.NoError(t, err)
	assert.False(t, wishlist.Contains("p1"))

	count, err := svc.WishlistCount(ctx, profile)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWishlistNoDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	_, err := svc.ToggleWishlist(ctx, profile, "p1")
	require.NoError(t, err)
	_, err = svc.ToggleWishlist(ctx, profile, "p2")
	require.NoError(t, err)

	count, err := svc.WishlistCount(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(nil)

	_, err := svc.AddToCart(ctx, "profile-a", "p1")
	require.NoError(t, err)

	cart, err := svc.Cart(ctx, "profile-b")
	require.NoError(t, err)
	assert.Empty(t, cart)
}
