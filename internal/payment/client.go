// Package payment wraps the external price/payment service. Pricing is
// never derived locally: the service returns computed totals, and for
// hostel purchases it also performs the allocation and user-state update
// on its side. Every call carries a bounded timeout.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const callTimeout = 5 * time.Second

// Client calls the payment service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: callTimeout},
	}
}

// CalculateRequest asks for the total of a membership or hostel service.
type CalculateRequest struct {
	UserID      uint64 `json:"user_id"`
	ServiceType string `json:"service_type"` // "reading_room" | "hostel"
	Months      int    `json:"months"`
	CouponCode  string `json:"coupon_code,omitempty"`
	RoomType    string `json:"room_type,omitempty"`
	BuildingID  uint64 `json:"building_id,omitempty"`
}

// CalculateResponse is the computed total returned by the service.
type CalculateResponse struct {
	TotalCents uint32 `json:"total_cents"`
	Discount   uint32 `json:"discount_cents"`
}

// PurchaseRequest delegates a hostel purchase. The service is trusted to
// create the hostel assignment and update the user's state atomically on
// its side; this process only gates the request on local availability.
type PurchaseRequest struct {
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	BedNumber  uint32 `json:"bed_number"`
	Months     int    `json:"months"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// PurchaseResponse reports the outcome of a delegated purchase.
type PurchaseResponse struct {
	AssignmentID uint64 `json:"assignment_id"`
	TotalCents   uint32 `json:"total_cents"`
	Reference    string `json:"reference"`
}

// CalculatePayment returns the computed total for a service selection.
func (c *Client) CalculatePayment(ctx context.Context, req CalculateRequest) (*CalculateResponse, error) {
	var resp CalculateResponse
	if err := c.post(ctx, "/v1/payments/calculate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessHostelPurchase performs the purchase and allocation remotely.
func (c *Client) ProcessHostelPurchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	var resp PurchaseResponse
	if err := c.post(ctx, "/v1/payments/hostel-purchase", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("payment service: %s (status %d)", e.Error, res.StatusCode)
		}
		return fmt.Errorf("payment service: unexpected status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
