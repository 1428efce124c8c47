package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"theaterbook/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *RazorpayGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRazorpayGateway(config.PaymentConfig{BaseURL: srv.URL, KeyID: "key", KeySecret: "secret"})
}

func TestRazorpayCreateOrder(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 250000, body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_9","amount":250000,"currency":"INR","receipt":"rcpt_1","status":"created"}`))
	})

	order, err := g.CreateOrder(context.Background(), OrderRequest{Amount: 250000, Currency: "INR", Receipt: "rcpt_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_9", order.ID)
	assert.Equal(t, int64(250000), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestRazorpayErrors(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/payments/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"description":"The id provided does not exist"}}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount is required"}}`))
	})

	_, err := g.FetchPayment(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = g.CreateOrder(context.Background(), OrderRequest{})
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "amount is required")
}

func TestRazorpayListPayments(t *testing.T) {
	from := time.Unix(1700000000, 0)
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "1700000000", r.URL.Query().Get("from"))
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"count":2,"items":[
			{"id":"pay_1","order_id":"order_1","amount":1000,"currency":"INR","status":"captured","created_at":1700000100},
			{"id":"pay_2","order_id":"order_2","amount":2000,"currency":"INR","status":"failed","created_at":1700000200}
		]}`))
	})

	list, err := g.ListPayments(context.Background(), ListOptions{From: from, Count: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "order_2", list[1].OrderID)
	assert.Equal(t, "captured", list[0].Status)
	assert.Equal(t, int64(1700000200), list[1].CreatedAt.Unix())
}

func TestNewGateway(t *testing.T) {
	g, err := NewGateway(config.PaymentConfig{Provider: "stripe", KeySecret: "sk_test"})
	require.NoError(t, err)
	assert.IsType(t, &StripeGateway{}, g)

	g, err = NewGateway(config.PaymentConfig{})
	require.NoError(t, err)
	assert.IsType(t, &RazorpayGateway{}, g)

	_, err = NewGateway(config.PaymentConfig{Provider: "paypal"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
