package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendora/storefront/internal/config"
	"trendora/storefront/internal/feed"
	"trendora/storefront/internal/idle"
	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
	"trendora/storefront/internal/service"
	"trendora/storefront/pkg/crypto"
	jwtpkg "trendora/storefront/pkg/jwt"
)

const testRecordKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

type fixedCatalog struct {
	products map[string]model.Product
}

func (c *fixedCatalog) Lookup(id string) (*model.Product, bool) {
	p, ok := c.products[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *fixedCatalog) Products() []model.Product {
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out
}

func (c *fixedCatalog) Refresh(_ context.Context) error { return nil }

type stubConversationRepo struct{}

func (stubConversationRepo) ListByParticipant(_ context.Context, _ model.ParticipantFilter) ([]model.Conversation, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	state := repository.NewMemoryStateStore()
	catalog := &fixedCatalog{products: map[string]model.Product{
		"p1": {ID: "p1", Name: "Linen Shirt", OfferPrice: 24.50},
	}}

	cipher, err := crypto.NewCipher(testRecordKey)
	require.NoError(t, err)
	jwtManager := jwtpkg.NewManager("test-signing-key", "test-issuer", time.Hour)

	cartService := service.NewCartService(state, catalog, time.Hour)
	sessionService := service.NewSessionService(
		state, cipher, jwtManager, idle.NewMemoryBroadcaster(), time.Hour, nil, zap.NewNop())
	t.Cleanup(sessionService.Close)
	conversationService := service.NewConversationService(
		stubConversationRepo{}, feed.NewMemoryTransport(), time.Hour, zap.NewNop())
	t.Cleanup(conversationService.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
	}
	router := SetupRouter(cfg, zap.NewNop(), jwtManager,
		NewSessionHandler(sessionService),
		NewCartHandler(cartService),
		NewConversationHandler(conversationService),
		NewProductHandler(catalog),
	)

	token, err := jwtManager.GenerateSessionToken(uuid.New(), "Ada", "user")
	require.NoError(t, err)
	return router, token
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartEndpointsRoundTrip(t *testing.T) {
	router, token := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/cart/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/cart/count", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"count":2}}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/cart/total", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"amount":49}}`, rec.Body.String())

	// Emptying via a zero quantity removes the key entirely.
	rec = do(t, router, http.MethodPut, "/api/v1/cart/p1", token, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"cart":{}}}`, rec.Body.String())
}

func TestCartRejectsNegativeQuantity(t *testing.T) {
	router, token := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/v1/cart/p1", token, gin.H{"quantity": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartTotalWithUnknownProductConflicts(t *testing.T) {
	router, token := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/ghost", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/cart/total", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWishlistToggleEndpoint(t *testing.T) {
	router, token := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/wishlist/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/wishlist/count", token, nil)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"count":1}}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/wishlist/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/wishlist/count", token, nil)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":{"count":0}}`, rec.Body.String())
}

func TestCartRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
