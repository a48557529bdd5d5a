package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/calculate", r.URL.Path)

		var req CalculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint64(7), req.UserID)
		assert.Equal(t, "hostel", req.ServiceType)
		assert.Equal(t, 3, req.Months)

		_ = json.NewEncoder(w).Encode(CalculateResponse{TotalCents: 2700000, Discount: 300000})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.CalculatePayment(context.Background(), CalculateRequest{
		UserID:      7,
		ServiceType: "hostel",
		Months:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(2700000), resp.TotalCents)
	assert.Equal(t, uint32(300000), resp.Discount)
}

func TestProcessHostelPurchase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/hostel-purchase", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PurchaseResponse{AssignmentID: 42, TotalCents: 900000, Reference: "PAY-001"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.ProcessHostelPurchase(context.Background(), PurchaseRequest{UserID: 7, RoomID: 1, BedNumber: 2, Months: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), resp.AssignmentID)
	assert.Equal(t, "PAY-001", resp.Reference)
}

func TestPaymentServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "coupon expired"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CalculatePayment(context.Background(), CalculateRequest{UserID: 7, ServiceType: "hostel", Months: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coupon expired")
	assert.Contains(t, err.Error(), "422")
}
