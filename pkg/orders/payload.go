package orders

import "voice-intake-be/pkg/store"

// Payload is the JSON document the order-creation endpoint accepts.
// Constructed fresh at every submission and not retained afterward.
type Payload struct {
	Retailer         string          `json:"retailer"`
	AutomationMethod string          `json:"automation_method"`
	Product          Product         `json:"product"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	Priority         string          `json:"priority"`
}

type Product struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type ShippingAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line_1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// BuildPayload projects the slot state into a backend-compatible order,
// filling demo defaults: quantity 1 when unset, price 0, Amazon when no
// retailer was named, and a fixed demo customer/shipping identity.
func BuildPayload(slots store.SlotState, automationMethod string) Payload {
	retailer := slots.Retailer
	if retailer == "" {
		retailer = "Amazon"
	}
	quantity := slots.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	return Payload{
		Retailer:         retailer,
		AutomationMethod: automationMethod,
		Product: Product{
			Name:     slots.ProductName,
			URL:      SearchURL(slots.ProductName, slots.Retailer),
			Quantity: quantity,
			Price:    0,
		},
		CustomerName:  "Demo User",
		CustomerEmail: "demo@example.com",
		ShippingAddress: ShippingAddress{
			FirstName:    "Demo",
			LastName:     "User",
			AddressLine1: "123 Main St",
			City:         "Seattle",
			State:        "WA",
			PostalCode:   "98109",
			Country:      "US",
		},
		Priority: "normal",
	}
}
