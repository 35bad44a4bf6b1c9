package model

// CartState maps product id to quantity. A key is present only while its
// quantity is positive; setting a quantity to zero removes the key.
type CartState map[string]int

// Clone returns an independent copy; mutations never touch the loaded state
// in place.
func (c CartState) Clone() CartState {
	out := make(CartState, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// WishlistState is an ordered set of product ids.
type WishlistState []string

// Contains reports set membership.
func (w WishlistState) Contains(productID string) bool {
	for _, id := range w {
		if id == productID {
			return true
		}
	}
	return false
}

// Toggle returns a new list with productID removed if present, appended
// otherwise.
func (w WishlistState) Toggle(productID string) WishlistState {
	out := make(WishlistState, 0, len(w)+1)
	found := false
	for _, id := range w {
		if id == productID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, productID)
	}
	return out
}
