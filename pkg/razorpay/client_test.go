package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
	}, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	logg := testLogger()

	if _, err := NewClient(config.RazorpayConfig{KeySecret: "s", BaseURL: "https://x"}, logg); err == nil {
		t.Fatal("expected error for missing key id")
	}
	if _, err := NewClient(config.RazorpayConfig{KeyID: "k", BaseURL: "https://x"}, logg); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewClient(config.RazorpayConfig{KeyID: "k", KeySecret: "s", BaseURL: "https://x"}, nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestCreateOrder(t *testing.T) {
	var gotPath, gotAuthUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, _, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_abc","amount":54900,"currency":"INR","receipt":"ORD-1","status":"created"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	order, err := client.CreateOrder(context.Background(), 54900, "INR", "ORD-1")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if gotPath != "/v1/orders" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuthUser != "rzp_test_key" {
		t.Fatalf("unexpected basic auth user %q", gotAuthUser)
	}
	if order.ID != "order_abc" || order.Amount != 54900 {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	_, err := client.CreateOrder(context.Background(), 0, "INR", "ORD-1")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay_123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"pay_123","order_id":"order_abc","amount":54900,"status":"captured","method":"upi"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payment, err := client.FetchPayment(context.Background(), "pay_123")
	if err != nil {
		t.Fatalf("fetch payment: %v", err)
	}
	if payment.Status != PaymentStatusCaptured {
		t.Fatalf("unexpected status %q", payment.Status)
	}
}

func TestAPIErrorsMapToDependencyCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":{"code":"SERVER_ERROR","description":"gateway unavailable"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchPayment(context.Background(), "pay_err")
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_abc"
	paymentID := "pay_123"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, orderID, paymentID, valid) {
		t.Fatal("valid signature rejected")
	}
	if VerifySignature(secret, orderID, paymentID, valid[:len(valid)-1]+"0") {
		t.Fatal("tampered signature accepted")
	}
	if VerifySignature(secret, orderID, "pay_other", valid) {
		t.Fatal("signature for different payment accepted")
	}
	if VerifySignature(secret, orderID, paymentID, "") {
		t.Fatal("empty signature accepted")
	}

	client := newTestClient(t, "http://unused.invalid")
	if !client.VerifySignature(orderID, paymentID, valid) {
		t.Fatal("client-bound verification rejected valid signature")
	}
}
