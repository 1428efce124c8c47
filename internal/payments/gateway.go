package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"theaterbook/internal/shared/config"
)

var (
	ErrGateway           = errors.New("payment gateway error")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrUnknownProvider   = errors.New("unknown payment provider")
)

// OrderRequest asks the gateway for an order. Amount is in minor units.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Payment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Method    string          `json:"method,omitempty"`
	Email     string          `json:"email,omitempty"`
	Contact   string          `json:"contact,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// ListOptions pages through payments created within [From, To].
type ListOptions struct {
	From  time.Time
	To    time.Time
	Count int
	Skip  int
}

// Gateway is the payment provider used for orders and payment lookups.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchPayment(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context, opts ListOptions) ([]Payment, error)
}

// ToMinorUnits converts a rupee amount to paise.
func ToMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// NewGateway builds the gateway named by cfg.Provider.
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "razorpay":
		return NewRazorpayGateway(cfg), nil
	case "stripe":
		return NewStripeGateway(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
