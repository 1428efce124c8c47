package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theaterbook/internal/shared/config"

	"github.com/stripe/stripe-go/v82"
)

// StripeGateway maps orders onto PaymentIntents. The intent id doubles as
// the order id and the payment id.
type StripeGateway struct {
	client   *stripe.Client
	currency string
}

func NewStripeGateway(cfg config.PaymentConfig) *StripeGateway {
	return &StripeGateway{client: stripe.NewClient(cfg.KeySecret), currency: cfg.Currency}
}

func wrapStripeErr(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		if serr.HTTPStatusCode == 404 {
			return fmt.Errorf("%w: %s", ErrPaymentNotFound, serr.Msg)
		}
		return fmt.Errorf("%w: %s", ErrGateway, serr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrGateway, err)
}

func (g *StripeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, wrapStripeErr(err)
	}
	return &Order{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: strings.ToUpper(string(pi.Currency)),
		Receipt:  req.Receipt,
		Status:   string(pi.Status),
	}, nil
}

func (g *StripeGateway) FetchPayment(ctx context.Context, id string) (*Payment, error) {
	pi, err := g.client.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, wrapStripeErr(err)
	}
	p := fromIntent(pi)
	return &p, nil
}

func (g *StripeGateway) ListPayments(ctx context.Context, opts ListOptions) ([]Payment, error) {
	params := &stripe.PaymentIntentListParams{}
	if !opts.From.IsZero() || !opts.To.IsZero() {
		params.CreatedRange = &stripe.RangeQueryParams{}
		if !opts.From.IsZero() {
			params.CreatedRange.GreaterThanOrEqual = opts.From.Unix()
		}
		if !opts.To.IsZero() {
			params.CreatedRange.LesserThanOrEqual = opts.To.Unix()
		}
	}
	count := opts.Count
	if count <= 0 {
		count = 50
	}
	params.Limit = stripe.Int64(int64(count + opts.Skip))

	out := make([]Payment, 0, count)
	seen := 0
	for pi, err := range g.client.V1PaymentIntents.List(ctx, params) {
		if err != nil {
			return nil, wrapStripeErr(err)
		}
		seen++
		if seen <= opts.Skip {
			continue
		}
		out = append(out, fromIntent(pi))
		if len(out) == count {
			break
		}
	}
	return out, nil
}

func fromIntent(pi *stripe.PaymentIntent) Payment {
	return Payment{
		ID:        pi.ID,
		OrderID:   pi.ID,
		Amount:    pi.Amount,
		Currency:  strings.ToUpper(string(pi.Currency)),
		Status:    string(pi.Status),
		CreatedAt: time.Unix(pi.Created, 0).UTC(),
	}
}
