package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
)

// Storage key names, namespaced per profile. Two instances of the same
// profile share these keys; concurrent writes resolve last-write-wins.
const (
	cartStorageKey     = "cartItems_storage"
	wishlistStorageKey = "wishlistItems_storage"
)

// DefaultStoreTTL is how long a persisted cart or wishlist stays valid.
const DefaultStoreTTL = 24 * time.Hour

type CartService interface {
	AddToCart(ctx context.Context, profileID, productID string) (model.CartState, error)
	UpdateQuantity(ctx context.Context, profileID, productID string, quantity int) (model.CartState, error)
	Cart(ctx context.Context, profileID string) (model.CartState, error)
	CartCount(ctx context.Context, profileID string) (int, error)
	CartAmount(ctx context.Context, profileID string) (float64, error)
	ToggleWishlist(ctx context.Context, profileID, productID string) (model.WishlistState, error)
	Wishlist(ctx context.Context, profileID string) (model.WishlistState, error)
	WishlistCount(ctx context.Context, profileID string) (int, error)
}

type cartService struct {
	cart     *repository.Expiring[model.CartState]
	wishlist *repository.Expiring[model.WishlistState]
	catalog  Catalog
}

func NewCartService(state repository.StateStore, catalog Catalog, storeTTL time.Duration) CartService {
	if storeTTL <= 0 {
		storeTTL = DefaultStoreTTL
	}
	return &cartService{
		cart: repository.NewExpiring(state, storeTTL, func() model.CartState {
			return model.CartState{}
		}),
		wishlist: repository.NewExpiring(state, storeTTL, func() model.WishlistState {
			return nil
		}),
		catalog: catalog,
	}
}

func cartKey(profileID string) string     { return profileID + ":" + cartStorageKey }
func wishlistKey(profileID string) string { return profileID + ":" + wishlistStorageKey }

func (s *cartService) AddToCart(ctx context.Context, profileID, productID string) (model.CartState, error) {
	current, err := s.cart.Load(ctx, cartKey(profileID))
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	next[productID]++
	if err := s.cart.Save(ctx, cartKey(profileID), next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, profileID, productID string, quantity int) (model.CartState, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	current, err := s.cart.Load(ctx, cartKey(profileID))
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if quantity == 0 {
		// A zero quantity removes the key; the map never stores zeros.
		delete(next, productID)
	} else {
		next[productID] = quantity
	}
	if err := s.cart.Save(ctx, cartKey(profileID), next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *cartService) Cart(ctx context.Context, profileID string) (model.CartState, error) {
	return s.cart.Load(ctx, cartKey(profileID))
}

func (s *cartService) CartCount(ctx context.Context, profileID string) (int, error) {
	cart, err := s.cart.Load(ctx, cartKey(profileID))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, qty := range cart {
		// Non-positive residue cannot exist per the state invariant, but
		// the accumulator guards anyway.
		if qty > 0 {
			count += qty
		}
	}
	return count, nil
}

// CartAmount prices the cart against the loaded catalog. A cart entry
// whose product is missing from the catalog is a precondition violation
// and surfaces as ErrProductNotInCatalog; callers sequence the catalog
// load before displaying totals.
func (s *cartService) CartAmount(ctx context.Context, profileID string) (float64, error) {
	cart, err := s.cart.Load(ctx, cartKey(profileID))
	if err != nil {
		return 0, err
	}
	total := 0.0
	for productID, qty := range cart {
		if qty <= 0 {
			continue
		}
		product, ok := s.catalog.Lookup(productID)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrProductNotInCatalog, productID)
		}
		total += product.OfferPrice * float64(qty)
	}
	// Floor to cents so floating point never overshoots displayed currency.
	return math.Floor(total*100) / 100, nil
}

func (s *cartService) ToggleWishlist(ctx context.Context, profileID, productID string) (model.WishlistState, error) {
	current, err := s.wishlist.Load(ctx, wishlistKey(profileID))
	if err != nil {
		return nil, err
	}
	next := current.Toggle(productID)
	if err := s.wishlist.Save(ctx, wishlistKey(profileID), next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *cartService) Wishlist(ctx context.Context, profileID string) (model.WishlistState, error) {
	return s.wishlist.Load(ctx, wishlistKey(profileID))
}

func (s *cartService) WishlistCount(ctx context.Context, profileID string) (int, error) {
	wishlist, err := s.wishlist.Load(ctx, wishlistKey(profileID))
	if err != nil {
		return 0, err
	}
	return len(wishlist), nil
}

var _ CartService = (*cartService)(nil)
