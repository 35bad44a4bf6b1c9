package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"trendora/storefront/internal/service"
	"trendora/storefront/pkg/response"
)

// CartHandler fronts the cart/wishlist engine. Every mutation responds
// with the resulting state so the client can reconcile immediately.
type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	cart, err := h.cartService.AddToCart(c.Request.Context(), profileID.String(), c.Param("productId"))
	if err != nil {
		response.InternalError(c, "failed to add to cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), profileID.String(), c.Param("productId"), *req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	cart, err := h.cartService.Cart(c.Request.Context(), profileID.String())
	if err != nil {
		response.InternalError(c, "failed to load cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

func (h *CartHandler) CartCount(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	count, err := h.cartService.CartCount(c.Request.Context(), profileID.String())
	if err != nil {
		response.InternalError(c, "failed to count cart")
		return
	}
	response.Success(c, gin.H{"count": count})
}

func (h *CartHandler) CartAmount(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	amount, err := h.cartService.CartAmount(c.Request.Context(), profileID.String())
	if err != nil {
		if errors.Is(err, service.ErrProductNotInCatalog) {
			// Catalog load must precede totals; this is a sequencing bug
			// upstream, not a user error.
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, "failed to total cart")
		return
	}
	response.Success(c, gin.H{"amount": amount})
}

func (h *CartHandler) ToggleWishlist(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	wishlist, err := h.cartService.ToggleWishlist(c.Request.Context(), profileID.String(), c.Param("productId"))
	if err != nil {
		response.InternalError(c, "failed to toggle wishlist")
		return
	}
	response.Success(c, gin.H{"wishlist": wishlist})
}

func (h *CartHandler) GetWishlist(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	wishlist, err := h.cartService.Wishlist(c.Request.Context(), profileID.String())
	if err != nil {
		response.InternalError(c, "failed to load wishlist")
		return
	}
	response.Success(c, gin.H{"wishlist": wishlist})
}

func (h *CartHandler) WishlistCount(c *gin.Context) {
	profileID, err := getProfileIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid session")
		return
	}

	count, err := h.cartService.WishlistCount(c.Request.Context(), profileID.String())
	if err != nil {
		response.InternalError(c, "failed to count wishlist")
		return
	}
	response.Success(c, gin.H{"count": count})
}
