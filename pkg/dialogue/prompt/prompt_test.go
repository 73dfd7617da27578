package prompt

import (
	"testing"

	"voice-intake-be/pkg/store"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		slots     store.SlotState
		wantText  string
		wantReady bool
	}{
		{
			name:     "nothing collected asks for product",
			slots:    store.SlotState{},
			wantText: "I didn't catch the product name. What do you want to buy?",
		},
		{
			name:     "product without quantity asks for quantity",
			slots:    store.SlotState{ProductName: "olive oil"},
			wantText: "Got it, olive oil. How many do you want?",
		},
		{
			name:     "product and quantity ask for retailer",
			slots:    store.SlotState{ProductName: "olive oil", Quantity: 2},
			wantText: "Okay, 2 olive oil. From which store? Amazon, Amazon Grocery, or Target?",
		},
		{
			name:      "complete slots confirm",
			slots:     store.SlotState{ProductName: "olive oil", Quantity: 2, Retailer: "Amazon"},
			wantText:  "Great! I'll order 2 olive oil from Amazon. Should I submit the order now? I can also open the website for you.",
			wantReady: true,
		},
		{
			name:     "quantity and retailer without product still asks for product",
			slots:    store.SlotState{Quantity: 3, Retailer: "Target"},
			wantText: "I didn't catch the product name. What do you want to buy?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ready := Next(tt.slots)

			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if ready != tt.wantReady {
				t.Errorf("ready = %v, want %v", ready, tt.wantReady)
			}
		})
	}
}
