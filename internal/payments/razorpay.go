package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"theaterbook/internal/shared/config"

	"github.com/tidwall/gjson"
)

const defaultRazorpayURL = "https://api.razorpay.com"

// RazorpayGateway talks to the Razorpay REST API with basic auth.
type RazorpayGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultRazorpayURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RazorpayGateway{
		baseURL:   base,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    &http.Client{Timeout: timeout},
	}
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, query url.Values, body interface{}) (string, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", 0, err
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	payload := string(raw)
	if resp.StatusCode >= 300 {
		desc := gjson.Get(payload, "error.description").String()
		if desc == "" {
			desc = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusNotFound {
			return payload, resp.StatusCode, fmt.Errorf("%w: %s", ErrPaymentNotFound, desc)
		}
		return payload, resp.StatusCode, fmt.Errorf("%w: %s", ErrGateway, desc)
	}
	if !gjson.Valid(payload) {
		return payload, resp.StatusCode, fmt.Errorf("%w: invalid response body", ErrGateway)
	}
	return payload, resp.StatusCode, nil
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		body["notes"] = req.Notes
	}
	payload, _, err := g.do(ctx, http.MethodPost, "/v1/orders", nil, body)
	if err != nil {
		return nil, err
	}
	res := gjson.Parse(payload)
	return &Order{
		ID:       res.Get("id").String(),
		Amount:   res.Get("amount").Int(),
		Currency: res.Get("currency").String(),
		Receipt:  res.Get("receipt").String(),
		Status:   res.Get("status").String(),
	}, nil
}

func (g *RazorpayGateway) FetchPayment(ctx context.Context, id string) (*Payment, error) {
	payload, _, err := g.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	p := parseRazorpayPayment(gjson.Parse(payload))
	return &p, nil
}

func (g *RazorpayGateway) ListPayments(ctx context.Context, opts ListOptions) ([]Payment, error) {
	q := url.Values{}
	if !opts.From.IsZero() {
		q.Set("from", strconv.FormatInt(opts.From.Unix(), 10))
	}
	if !opts.To.IsZero() {
		q.Set("to", strconv.FormatInt(opts.To.Unix(), 10))
	}
	if opts.Count > 0 {
		q.Set("count", strconv.Itoa(opts.Count))
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}

	payload, _, err := g.do(ctx, http.MethodGet, "/v1/payments", q, nil)
	if err != nil {
		return nil, err
	}
	items := gjson.Get(payload, "items").Array()
	out := make([]Payment, 0, len(items))
	for _, item := range items {
		out = append(out, parseRazorpayPayment(item))
	}
	return out, nil
}

func parseRazorpayPayment(r gjson.Result) Payment {
	return Payment{
		ID:        r.Get("id").String(),
		OrderID:   r.Get("order_id").String(),
		Amount:    r.Get("amount").Int(),
		Currency:  r.Get("currency").String(),
		Status:    r.Get("status").String(),
		Method:    r.Get("method").String(),
		Email:     r.Get("email").String(),
		Contact:   r.Get("contact").String(),
		CreatedAt: time.Unix(r.Get("created_at").Int(), 0).UTC(),
		Raw:       json.RawMessage(r.Raw),
	}
}
