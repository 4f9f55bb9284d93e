package websocket

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"status": "Delayed (12 days)",
	}

	before := time.Now()
	evt := NewEvent(EventTypeUpdated, EntityTypeLoan, payload)
	after := time.Now()

	assert.Equal(t, "loan.updated", evt.Type)
	assert.Equal(t, EntityTypeLoan, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := PaymentCreated(map[string]interface{}{
		"id":         float64(3),
		"amountPaid": "1035.00",
	})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "payment.created", decoded["type"])
	assert.Equal(t, "payment", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1035.00", payload["amountPaid"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		evt      Event
		expected string
	}{
		{"loan updated", LoanUpdated(nil), "loan.updated"},
		{"loan deleted", LoanDeleted(nil), "loan.deleted"},
		{"payment created", PaymentCreated(nil), "payment.created"},
		{"borrower updated", BorrowerUpdated(nil), "borrower.updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
		})
	}
}
