package prompt

import (
	"fmt"

	"voice-intake-be/internal/constant"
	"voice-intake-be/pkg/store"
)

// Next returns the assistant response for the current slot state. The
// mapping is total and deterministic: every state has exactly one defined
// response, evaluated in fixed priority order (product, quantity, retailer,
// confirmation). ready reports that all slots are filled and the returned
// text is the confirmation summary.
func Next(slots store.SlotState) (text string, ready bool) {
	switch {
	case !slots.HasProductName():
		return constant.MissingProductPrompt, false
	case !slots.HasQuantity():
		return fmt.Sprintf(constant.MissingQuantityPromptFmt, slots.ProductName), false
	case !slots.HasRetailer():
		return fmt.Sprintf(constant.MissingRetailerPromptFmt, slots.Quantity, slots.ProductName), false
	default:
		return fmt.Sprintf(constant.ConfirmPromptFmt, slots.Quantity, slots.ProductName, slots.Retailer), true
	}
}

// Greeting returns the fixed conversation-opening prompt.
func Greeting() string {
	return constant.GreetingPrompt
}
