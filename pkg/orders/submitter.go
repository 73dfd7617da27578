package orders

import (
	"context"
	"fmt"
	"log"

	"voice-intake-be/internal/constant"
	"voice-intake-be/pkg/events"
	"voice-intake-be/pkg/speech"
	"voice-intake-be/pkg/store"
)

// Submitter converts a completed slot state into an order submission.
// The live-preview navigation is emitted before the network call and is
// strictly best-effort: a dropped navigate event never aborts submission.
type Submitter struct {
	client    *Client
	publisher events.Publisher
	speech    speech.Channel
	logger    *log.Logger
}

func NewSubmitter(client *Client, publisher events.Publisher, speechChannel speech.Channel, logger *log.Logger) *Submitter {
	return &Submitter{
		client:    client,
		publisher: publisher,
		speech:    speechChannel,
		logger:    logger,
	}
}

// Submit performs one submission attempt for the conversation's slot state
// and returns the backend order identifier. Precondition: the product name
// must be set; without it no network call is attempted and
// ErrMissingProductName is returned.
func (s *Submitter) Submit(ctx context.Context, conv *store.Conversation) (string, error) {
	if !conv.Slots.HasProductName() {
		return "", ErrMissingProductName
	}

	// Live preview: open the store search page while the order is submitted.
	productURL := SearchURL(conv.Slots.ProductName, conv.Slots.Retailer)
	if err := s.publisher.Publish(ctx, events.NewNavigate(conv.ID, productURL)); err != nil {
		s.logger.Printf("[WARN] navigate request dropped for %s: %v", conv.ID, err)
	}
	storeLabel := conv.Slots.Retailer
	if storeLabel == "" {
		storeLabel = constant.DefaultStoreLabel
	}
	s.speech.Speak(conv.ID, fmt.Sprintf(constant.OpeningStorePromptFmt, storeLabel))

	payload := BuildPayload(conv.Slots, conv.AutomationMethod)

	s.logger.Printf("[SUBMIT] %s: %d x %q from %s", conv.ID,
		payload.Product.Quantity, payload.Product.Name, payload.Retailer)

	orderID, err := s.client.Create(ctx, payload)
	if err != nil {
		return "", err
	}

	return orderID, nil
}
