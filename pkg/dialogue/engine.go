package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"voice-intake-be/internal/constant"
	"voice-intake-be/pkg/dialogue/extract"
	"voice-intake-be/pkg/dialogue/prompt"
	"voice-intake-be/pkg/dialogue/session"
	"voice-intake-be/pkg/dialogue/state"
	"voice-intake-be/pkg/events"
	"voice-intake-be/pkg/orders"
	"voice-intake-be/pkg/speech"
	"voice-intake-be/pkg/store"
)

var (
	// ErrConversationNotFound means the id is unknown or already closed.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNotReadyToSubmit guards the manual submit path: submission is only
	// honored while the conversation is READY_TO_CONFIRM.
	ErrNotReadyToSubmit = errors.New("conversation is not ready to submit")
)

// TurnResult is what one handled event produced. SubmitErr carries the
// submission failure when the turn ended in the ERRORED state; the
// conversation itself already holds the terminal state and spoken reply.
type TurnResult struct {
	Conversation *store.Conversation
	Reply        string
	Submitted    bool
	OrderID      string
	SubmitErr    error
}

// Engine is the dialogue controller: given the current conversation and a
// new external event (utterance received, submission requested) it decides
// the next response, appends it to the history, and drives speech I/O and
// side-effect requests. All per-conversation work runs under the session
// lock, so two utterances can never interleave their slot merges.
type Engine struct {
	sessions  *session.Manager
	states    *state.Manager
	submitter *orders.Submitter
	speech    speech.Channel
	publisher events.Publisher
	logger    *log.Logger

	// observationDelay keeps a completed conversation visible before it is
	// closed, so the user sees the success state.
	observationDelay time.Duration
}

func NewEngine(
	sessions *session.Manager,
	states *state.Manager,
	submitter *orders.Submitter,
	speechChannel speech.Channel,
	publisher events.Publisher,
	logger *log.Logger,
	observationDelay time.Duration,
) *Engine {
	if observationDelay <= 0 {
		observationDelay = 3 * time.Second
	}
	return &Engine{
		sessions:         sessions,
		states:           states,
		submitter:        submitter,
		speech:           speechChannel,
		publisher:        publisher,
		logger:           logger,
		observationDelay: observationDelay,
	}
}

// Start opens a conversation: fixed greeting, spoken and appended as the
// first assistant turn, then the engine waits for input.
func (e *Engine) Start(ctx context.Context, conv *store.Conversation) string {
	greeting := prompt.Greeting()
	e.appendTurn(conv, store.RoleAssistant, greeting)
	e.states.ToAwaitingInput(conv)
	e.sessions.Save(conv)

	e.speech.Speak(conv.ID, greeting)
	e.speech.StartListening(conv.ID)
	e.publishState(ctx, conv)
	return greeting
}

// HandleUtterance runs one turn of the slot-filling machine. A malformed or
// unrecognized utterance never fails the turn: worst case the extraction
// delta is empty and the same missing-slot prompt repeats.
func (e *Engine) HandleUtterance(ctx context.Context, conversationID, text string) (*TurnResult, error) {
	mu := e.sessions.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	// Always re-read the authoritative copy under the lock; never act on a
	// snapshot captured before the lock was taken.
	conv, ok := e.sessions.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	if text == "" || store.IsTerminal(conv.State) {
		return &TurnResult{Conversation: conv}, nil
	}

	conv.LastHeard = text
	e.logger.Printf("[TURN] %s heard: %q", conv.ID, text)

	// Confirmation short-circuit: an affirmative while READY_TO_CONFIRM
	// skips extraction entirely and submits exactly once.
	if conv.State == store.StateReadyToConfirm && isAffirmative(text) {
		return e.submit(ctx, conv)
	}

	e.states.ToProcessing(conv)
	e.appendTurn(conv, store.RoleUser, text)

	conv.Slots = extract.Apply(text, conv.Slots)

	reply, ready := prompt.Next(conv.Slots)
	e.appendTurn(conv, store.RoleAssistant, reply)
	if ready {
		e.states.ToReadyToConfirm(conv)
	} else {
		e.states.ToAwaitingInput(conv)
	}
	e.sessions.Save(conv)

	// Stop the recognizer before synthesizing so the assistant does not
	// listen to its own voice output.
	e.speech.StopListening(conv.ID)
	e.speech.Speak(conv.ID, reply)
	e.speech.StartListening(conv.ID)
	e.publishState(ctx, conv)

	return &TurnResult{Conversation: conv, Reply: reply}, nil
}

// Submit handles an explicit submission request (the dashboard button).
func (e *Engine) Submit(ctx context.Context, conversationID string) (*TurnResult, error) {
	mu := e.sessions.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	conv, ok := e.sessions.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}
	if conv.State != store.StateReadyToConfirm {
		return nil, ErrNotReadyToSubmit
	}
	return e.submit(ctx, conv)
}

// Restart clears slots, history and confirmation flags and re-greets.
func (e *Engine) Restart(ctx context.Context, conversationID string) (*store.Conversation, error) {
	mu := e.sessions.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	conv, ok := e.sessions.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	e.speech.StopListening(conv.ID)
	e.speech.CancelSpeech(conv.ID)
	e.sessions.Reset(conv)
	e.logger.Printf("[TURN] %s restarted", conv.ID)
	e.Start(ctx, conv)
	return conv, nil
}

// Dismiss closes the conversation: recognition stops and pending synthesis
// is cancelled synchronously. An in-flight submission holds the session
// lock, so it completes (or fails) before the conversation is dropped.
func (e *Engine) Dismiss(ctx context.Context, conversationID string) error {
	mu := e.sessions.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	conv, ok := e.sessions.Get(conversationID)
	if !ok {
		return ErrConversationNotFound
	}

	e.speech.StopListening(conv.ID)
	e.speech.CancelSpeech(conv.ID)
	if err := e.publisher.Publish(ctx, events.NewDismissed(conv.ID)); err != nil {
		e.logger.Printf("[WARN] dismissed event dropped for %s: %v", conv.ID, err)
	}
	e.sessions.Delete(conv.ID)
	e.logger.Printf("[TURN] %s dismissed", conv.ID)
	return nil
}

// submit runs one submission episode. Caller holds the session lock and has
// verified the conversation is READY_TO_CONFIRM, which guarantees at most
// one attempt per confirmed intent: the state leaves READY_TO_CONFIRM here
// and never returns to it without a restart.
func (e *Engine) submit(ctx context.Context, conv *store.Conversation) (*TurnResult, error) {
	e.states.ToSubmitting(conv)
	e.sessions.Save(conv)
	e.speech.StopListening(conv.ID)

	orderID, err := e.submitter.Submit(ctx, conv)
	if err != nil {
		return e.failSubmission(ctx, conv, err), nil
	}

	reply := constant.SubmitSuccessPrompt
	e.appendTurn(conv, store.RoleAssistant, reply)
	e.states.ToCompleted(conv, orderID)
	e.sessions.Save(conv)

	e.speech.Speak(conv.ID, reply)
	e.notify(ctx, events.NewOrderCreated(conv.ID, orderID))
	e.notify(ctx, events.NewNotification(conv.ID, events.NotificationSuccess,
		"Order created", fmt.Sprintf("Order %s recorded in your dashboard.", orderID)))
	e.publishState(ctx, conv)

	// Keep the success state on screen briefly, then close the conversation.
	convID := conv.ID
	time.AfterFunc(e.observationDelay, func() {
		e.closeCompleted(convID)
	})

	return &TurnResult{Conversation: conv, Reply: reply, Submitted: true, OrderID: orderID}, nil
}

func (e *Engine) failSubmission(ctx context.Context, conv *store.Conversation, err error) *TurnResult {
	var reply, spoken string
	var rejected *orders.RejectedError
	var unreachable *orders.UnreachableError

	switch {
	case errors.Is(err, orders.ErrMissingProductName):
		reply = constant.MissingProductError
		spoken = constant.MissingProductError
	case errors.As(err, &rejected):
		reply = fmt.Sprintf("Submission failed: %s", rejected.Detail)
		spoken = constant.SubmitRejectedPrompt
	case errors.As(err, &unreachable):
		reply = "Network error connecting to backend."
		spoken = constant.SubmitUnreachablePrompt
	default:
		reply = fmt.Sprintf("Submission failed: %v", err)
		spoken = constant.SubmitRejectedPrompt
	}

	e.appendTurn(conv, store.RoleAssistant, reply)
	e.states.ToErrored(conv, err.Error())
	e.sessions.Save(conv)

	e.speech.Speak(conv.ID, spoken)
	e.notify(ctx, events.NewNotification(conv.ID, events.NotificationError, "Order submission failed", reply))
	e.publishState(ctx, conv)

	return &TurnResult{Conversation: conv, Reply: reply, SubmitErr: err}
}

func (e *Engine) closeCompleted(conversationID string) {
	mu := e.sessions.Lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	conv, ok := e.sessions.Get(conversationID)
	if !ok || conv.State != store.StateCompleted {
		// Dismissed or restarted in the meantime.
		return
	}
	if err := e.publisher.Publish(context.Background(), events.NewDismissed(conv.ID)); err != nil {
		e.logger.Printf("[WARN] dismissed event dropped for %s: %v", conv.ID, err)
	}
	e.sessions.Delete(conv.ID)
}

func (e *Engine) appendTurn(conv *store.Conversation, role, text string) {
	conv.History = append(conv.History, store.Turn{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (e *Engine) publishState(ctx context.Context, conv *store.Conversation) {
	e.notify(ctx, events.NewState(conv.ID, conv.State, map[string]interface{}{
		"product_name": conv.Slots.ProductName,
		"quantity":     conv.Slots.Quantity,
		"retailer":     conv.Slots.Retailer,
	}))
}

func (e *Engine) notify(ctx context.Context, event events.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Printf("[WARN] event %s dropped: %v", event.EventType(), err)
	}
}

func isAffirmative(text string) bool {
	lowered := strings.ToLower(text)
	for _, token := range constant.AffirmativeTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
