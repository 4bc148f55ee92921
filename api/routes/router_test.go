package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dhruvmehta-dev/storefront-backend/internal/address"
	"github.com/dhruvmehta-dev/storefront-backend/internal/cart"
	"github.com/dhruvmehta-dev/storefront-backend/internal/identity"
	"github.com/dhruvmehta-dev/storefront-backend/internal/orders"
	"github.com/dhruvmehta-dev/storefront-backend/internal/payments"
	"github.com/dhruvmehta-dev/storefront-backend/internal/products"
	pkgauth "github.com/dhruvmehta-dev/storefront-backend/pkg/auth"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) Issue(context.Context) (string, error) { return "sess-router-test", nil }

func (stubSessions) Validate(context.Context, string) (bool, error) { return true, nil }

type stubProducts struct{}

func (stubProducts) GetProduct(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProducts) ListProducts(context.Context, *uuid.UUID, int, int) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func (stubProducts) ListCategories(context.Context) ([]products.CategoryDTO, error) {
	return []products.CategoryDTO{}, nil
}

type stubCart struct{}

func (stubCart) GetCart(context.Context, identity.Identity) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (stubCart) AddItem(context.Context, identity.Identity, cart.AddItemInput) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (stubCart) UpdateItem(context.Context, identity.Identity, uuid.UUID, int) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (stubCart) RemoveItem(context.Context, identity.Identity, uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (stubCart) Clear(context.Context, identity.Identity) error { return nil }

type stubAddresses struct{}

func (stubAddresses) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Address, error) {
	return &models.Address{}, nil
}

func (stubAddresses) List(context.Context, uuid.UUID) ([]models.Address, error) {
	return []models.Address{}, nil
}

func (stubAddresses) Create(context.Context, uuid.UUID, address.CreateInput) (*models.Address, error) {
	return &models.Address{}, nil
}

func (stubAddresses) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubOrders struct{}

func (stubOrders) CreateOrder(context.Context, identity.Identity, orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrders) CreatePendingOrder(context.Context, identity.Identity, orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrders) GetOrder(context.Context, identity.Identity, uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrders) ListOrders(context.Context, identity.Identity, int, int) ([]orders.SummaryDTO, error) {
	return []orders.SummaryDTO{}, nil
}

type stubPayments struct{}

func (stubPayments) Verify(context.Context, identity.Identity, payments.VerifyInput) (*payments.VerifyResult, error) {
	return &payments.VerifyResult{}, nil
}

func routerConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "storefront-test",
			ExpirationMinutes: 15,
		},
		Session: config.SessionConfig{CookieName: "sf_session", TTL: time.Hour},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	return NewRouter(Deps{
		Config:    routerConfig(),
		Logger:    logg,
		DB:        stubPinger{},
		Sessions:  stubSessions{},
		Products:  stubProducts{},
		Cart:      stubCart{},
		Addresses: stubAddresses{},
		Orders:    stubOrders{},
		Payments:  stubPayments{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-Storefront-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestHealthReadySkipsMissingRedis(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStorefrontIssuesSessionCookie(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == "sf_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a session cookie on first contact")
	}
	if cookie.Value != "sess-router-test" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
}

func TestAddressesRequireAuthenticatedUser(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAddressesAcceptValidJWT(t *testing.T) {
	router := newTestRouter(t)
	cfg := routerConfig()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "shopper@example.com",
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
