package orders

import (
	"testing"

	"voice-intake-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildPayload(t *testing.T) {
	slots := store.SlotState{ProductName: "olive oil", Quantity: 2, Retailer: "Amazon Grocery"}

	payload := BuildPayload(slots, "strands")

	assert.Equal(t, "Amazon Grocery", payload.Retailer)
	assert.Equal(t, "strands", payload.AutomationMethod)
	assert.Equal(t, "olive oil", payload.Product.Name)
	assert.Equal(t, 2, payload.Product.Quantity)
	assert.Equal(t, "https://www.amazon.com/s?k=olive+oil&i=amazonfresh", payload.Product.URL)
	assert.Equal(t, float64(0), payload.Product.Price)
	assert.Equal(t, "normal", payload.Priority)

	// Demo identity until the assistant has a profile source.
	assert.Equal(t, "Demo User", payload.CustomerName)
	assert.Equal(t, "demo@example.com", payload.CustomerEmail)
	assert.Equal(t, "Seattle", payload.ShippingAddress.City)
	assert.Equal(t, "98109", payload.ShippingAddress.PostalCode)
	assert.Equal(t, "US", payload.ShippingAddress.Country)
}

func TestBuildPayloadDefaults(t *testing.T) {
	payload := BuildPayload(store.SlotState{ProductName: "batteries"}, "strands")

	assert.Equal(t, "Amazon", payload.Retailer)
	assert.Equal(t, 1, payload.Product.Quantity)
	assert.Equal(t, "https://www.amazon.com/s?k=batteries", payload.Product.URL)
}
