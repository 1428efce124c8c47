package bookings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"theaterbook/internal/coupons"
	"theaterbook/internal/payments"
	"theaterbook/internal/shared/middleware"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: date", ErrInvalidInput), http.StatusBadRequest},
		{timewindow.ErrInvalidDate, http.StatusBadRequest},
		{fmt.Errorf("verify: %w", fmt.Errorf("%w: %w", ErrPaymentVerificationFailed, payments.ErrSignatureMismatch)), http.StatusBadRequest},
		{coupons.ErrCouponRejected, http.StatusBadRequest},
		{theaters.ErrTheaterNotFound, http.StatusNotFound},
		{ErrSlotNotFound, http.StatusNotFound},
		{fmt.Errorf("allocate: %w", ErrSlotAlreadyBooked), http.StatusConflict},
		{ErrSlotUnavailable, http.StatusConflict},
		{ErrForbidden, http.StatusForbidden},
		{payments.ErrGateway, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := timewindow.NewWithLocation(ist, time.Hour)
	store := newMemStore(w)
	verifier := payments.NewSignatureVerifier("rzp_secret")
	coord := NewCoordinator(CoordinatorDeps{
		Theaters:  store,
		Allocator: NewAllocator(store, store, w),
		Bookings:  store,
		Coupons:   &fakeCoupons{},
		Gateway:   &fakeGateway{},
		Verifier:  verifier,
		Window:    w,
	})
	ctrl := NewController(nil, coord, w)

	r := gin.New()
	r.POST("/anon/payments/verify", ctrl.VerifyPayment)
	r.POST("/payments/verify", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.NewString())
		c.Next()
	}, ctrl.VerifyPayment)

	send := func(path string, body interface{}) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}
	post := func(body interface{}) *httptest.ResponseRecorder { return send("/payments/verify", body) }

	rec := post(map[string]string{"order_id": "order_1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(VerifyPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":false`)

	rec = post(VerifyPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: verifier.Sign("order_1", "pay_1")})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":true`)

	rec = send("/anon/payments/verify", VerifyPaymentRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: verifier.Sign("order_1", "pay_1")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
