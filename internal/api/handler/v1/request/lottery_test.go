package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

func validPurchase() PurchaseRequest {
	return PurchaseRequest{Quantity: 2, CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/30", CVV: "123"}
}

func TestPurchaseRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *PurchaseRequest)
		wantErr bool
	}{
		{"valid", func(r *PurchaseRequest) {}, false},
		{"compact card", func(r *PurchaseRequest) { r.CardNumber = "4242424242424" }, false},
		{"four digit cvv", func(r *PurchaseRequest) { r.CVV = "1234" }, false},
		{"max quantity", func(r *PurchaseRequest) { r.Quantity = 10 }, false},
		{"zero quantity", func(r *PurchaseRequest) { r.Quantity = 0 }, true},
		{"too many", func(r *PurchaseRequest) { r.Quantity = 11 }, true},
		{"short card", func(r *PurchaseRequest) { r.CardNumber = "4242 4242 4242" }, true},
		{"long card", func(r *PurchaseRequest) { r.CardNumber = "42424242424242424242" }, true},
		{"letters in card", func(r *PurchaseRequest) { r.CardNumber = "4242 4242 4242 424a" }, true},
		{"bad expiry", func(r *PurchaseRequest) { r.ExpiryDate = "13/30" }, true},
		{"expiry without slash", func(r *PurchaseRequest) { r.ExpiryDate = "1230" }, true},
		{"short cvv", func(r *PurchaseRequest) { r.CVV = "12" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPurchase()
			tt.mutate(&req)
			err := req.Validate(10)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPurchaseRequestCard(t *testing.T) {
	req := validPurchase()
	assert.Equal(t, "4242424242424242", req.Card().Number)
}

func TestDrawTypeRequest(t *testing.T) {
	req := DrawTypeRequest{Name: "Friday", Schedule: map[string]int{"weekday": 4}, Priority: 2}
	require.NoError(t, req.Validate())

	dt, err := req.ToDomain()
	require.NoError(t, err)
	assert.True(t, dt.IsActive)
	assert.Equal(t, map[string]int{"weekday": 4}, dt.Schedule.Selector())

	inactive := false
	req.IsActive = &inactive
	dt, err = req.ToDomain()
	require.NoError(t, err)
	assert.False(t, dt.IsActive)

	req.Schedule = map[string]int{"weekday": 9}
	_, err = req.ToDomain()
	assert.Error(t, err)

	assert.Error(t, (&DrawTypeRequest{}).Validate())
}

func TestPrizeRequest(t *testing.T) {
	assert.NoError(t, (&PrizeRequest{Name: "Grand", Amount: 0, Count: 1}).Validate())
	assert.Error(t, (&PrizeRequest{Name: "Grand", Amount: -5, Count: 1}).Validate())
	assert.Error(t, (&PrizeRequest{Name: "Grand", Amount: 5}).Validate())
	assert.NoError(t, (&PrizeRequest{Name: "Many", Amount: 5, Count: domain.MaxPrizeCount}).Validate())
	assert.Error(t, (&PrizeRequest{Name: "Flood", Amount: 5, Count: 2_000_000_000}).Validate())
	assert.Error(t, (&PrizeRequest{Name: "Jackpot", Amount: domain.MaxPrizeAmount + 1, Count: 1}).Validate())
}

func TestDrawRequest(t *testing.T) {
	req := DrawRequest{Date: "2030-01-04"}
	require.NoError(t, req.Validate())
	d, err := req.ParsedDate()
	require.NoError(t, err)
	assert.Equal(t, 4, d.Day())

	assert.Error(t, (&DrawRequest{Date: "04/01/2030"}).Validate())
	assert.Error(t, (&DrawRequest{}).Validate())
	assert.Error(t, (&AssignBallotRequest{}).Validate())
}
