package dialogue

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"voice-intake-be/internal/repository/memory"
	"voice-intake-be/pkg/dialogue/session"
	"voice-intake-be/pkg/dialogue/state"
	"voice-intake-be/pkg/events"
	"voice-intake-be/pkg/orders"
	"voice-intake-be/pkg/speech"
	"voice-intake-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeech struct {
	mu     sync.Mutex
	spoken []string
}

var _ speech.Channel = (*fakeSpeech)(nil)

func (f *fakeSpeech) Speak(conversationID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
}

func (f *fakeSpeech) StartListening(conversationID string) {}
func (f *fakeSpeech) StopListening(conversationID string)  {}
func (f *fakeSpeech) CancelSpeech(conversationID string)   {}

func (f *fakeSpeech) lastSpoken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.spoken) == 0 {
		return ""
	}
	return f.spoken[len(f.spoken)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type engineFixture struct {
	engine    *Engine
	sessions  *session.Manager
	speech    *fakeSpeech
	publisher *recordingPublisher
}

func newEngineFixture(t *testing.T, backendURL string, observationDelay time.Duration) *engineFixture {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	sessions := session.NewManager(memory.NewConversationRepository(time.Hour), "strands")
	states := state.NewManager(logger)
	speechChannel := &fakeSpeech{}
	publisher := &recordingPublisher{}

	client := orders.NewClient(backendURL, 2*time.Second)
	submitter := orders.NewSubmitter(client, publisher, speechChannel, logger)

	engine := NewEngine(sessions, states, submitter, speechChannel, publisher, logger, observationDelay)

	return &engineFixture{
		engine:    engine,
		sessions:  sessions,
		speech:    speechChannel,
		publisher: publisher,
	}
}

func (f *engineFixture) startConversation(t *testing.T) *store.Conversation {
	t.Helper()
	conv := f.sessions.Create("conv-1", "user-1")
	f.engine.Start(context.Background(), conv)
	return conv
}

func newOrderBackend(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id": "ord_123"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConversationConvergesToConfirmation(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	assert.Equal(t, store.StateAwaitingInput, conv.State)
	assert.Equal(t, "Hello! I'm your order assistant. What product would you like to buy today?", f.speech.lastSpoken())

	ctx := context.Background()

	res, err := f.engine.HandleUtterance(ctx, conv.ID, "I want olive oil")
	require.NoError(t, err)
	assert.Equal(t, "Got it, olive oil. How many do you want?", res.Reply)
	assert.Equal(t, store.StateAwaitingInput, res.Conversation.State)

	res, err = f.engine.HandleUtterance(ctx, conv.ID, "two")
	require.NoError(t, err)
	assert.Equal(t, "Okay, 2 olive oil. From which store? Amazon, Amazon Grocery, or Target?", res.Reply)

	res, err = f.engine.HandleUtterance(ctx, conv.ID, "amazon")
	require.NoError(t, err)
	assert.Equal(t, store.StateReadyToConfirm, res.Conversation.State)
	assert.Equal(t, store.SlotState{ProductName: "olive oil", Quantity: 2, Retailer: "Amazon"}, res.Conversation.Slots)

	// Nothing submitted until the user confirms.
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestAffirmativeSubmitsExactlyOnce(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	ctx := context.Background()
	_, err := f.engine.HandleUtterance(ctx, conv.ID, "2 olive oil from amazon")
	require.NoError(t, err)

	res, err := f.engine.HandleUtterance(ctx, conv.ID, "yes, go ahead")
	require.NoError(t, err)
	assert.True(t, res.Submitted)
	assert.Equal(t, "ord_123", res.OrderID)
	assert.Equal(t, store.StateCompleted, res.Conversation.State)
	assert.Equal(t, "ord_123", res.Conversation.OrderID)
	assert.Equal(t, "Success! Order recorded in your dashboard.", f.speech.lastSpoken())

	// A second affirmative lands on a terminal conversation and is ignored.
	res, err = f.engine.HandleUtterance(ctx, conv.ID, "yes")
	require.NoError(t, err)
	assert.False(t, res.Submitted)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// The preview navigation and the order event both went out.
	assert.Contains(t, f.publisher.eventTypes(), events.TypeNavigate)
	assert.Contains(t, f.publisher.eventTypes(), events.TypeOrderCreated)
}

func TestCompletedConversationClosesAfterDelay(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, 20*time.Millisecond)
	conv := f.startConversation(t)

	ctx := context.Background()
	_, err := f.engine.HandleUtterance(ctx, conv.ID, "2 olive oil from amazon")
	require.NoError(t, err)
	_, err = f.engine.HandleUtterance(ctx, conv.ID, "submit")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := f.sessions.Get(conv.ID)
		return !ok
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, f.publisher.eventTypes(), events.TypeDismissed)
}

func TestSubmitRequiresConfirmableState(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	_, err := f.engine.Submit(context.Background(), conv.ID)

	assert.ErrorIs(t, err, ErrNotReadyToSubmit)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSubmitWithoutProductMakesNoNetworkCall(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	// Force the confirmation state without a product to exercise the guard.
	conv.State = store.StateReadyToConfirm
	f.sessions.Save(conv)

	res, err := f.engine.Submit(context.Background(), conv.ID)

	require.NoError(t, err)
	assert.ErrorIs(t, res.SubmitErr, orders.ErrMissingProductName)
	assert.Equal(t, "Missing product name", res.Reply)
	assert.Equal(t, store.StateErrored, res.Conversation.State)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestBackendRejectionErrorsConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Invalid retailer"}`))
	}))
	t.Cleanup(srv.Close)

	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	ctx := context.Background()
	_, err := f.engine.HandleUtterance(ctx, conv.ID, "2 olive oil from amazon")
	require.NoError(t, err)

	res, err := f.engine.HandleUtterance(ctx, conv.ID, "yes")
	require.NoError(t, err)
	assert.Equal(t, "Submission failed: Invalid retailer", res.Reply)
	assert.Equal(t, store.StateErrored, res.Conversation.State)

	var rejected *orders.RejectedError
	assert.ErrorAs(t, res.SubmitErr, &rejected)

	// Terminal state: further utterances are ignored.
	res, err = f.engine.HandleUtterance(ctx, conv.ID, "try again")
	require.NoError(t, err)
	assert.Empty(t, res.Reply)
	assert.Equal(t, store.StateErrored, res.Conversation.State)
}

func TestUnreachableBackendErrorsConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	ctx := context.Background()
	_, err := f.engine.HandleUtterance(ctx, conv.ID, "2 olive oil from amazon")
	require.NoError(t, err)

	res, err := f.engine.HandleUtterance(ctx, conv.ID, "yes")
	require.NoError(t, err)
	assert.Equal(t, "Network error connecting to backend.", res.Reply)
	assert.Equal(t, store.StateErrored, res.Conversation.State)

	var unreachable *orders.UnreachableError
	assert.ErrorAs(t, res.SubmitErr, &unreachable)
}

func TestRestartClearsEverything(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	ctx := context.Background()
	_, err := f.engine.HandleUtterance(ctx, conv.ID, "2 olive oil from amazon")
	require.NoError(t, err)

	restarted, err := f.engine.Restart(ctx, conv.ID)

	require.NoError(t, err)
	assert.Equal(t, store.StateAwaitingInput, restarted.State)
	assert.Equal(t, store.SlotState{}, restarted.Slots)
	assert.Empty(t, restarted.LastHeard)
	require.Len(t, restarted.History, 1)
	assert.Equal(t, store.RoleAssistant, restarted.History[0].Role)
}

func TestDismissDropsConversation(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	err := f.engine.Dismiss(context.Background(), conv.ID)

	require.NoError(t, err)
	_, ok := f.sessions.Get(conv.ID)
	assert.False(t, ok)
	assert.Contains(t, f.publisher.eventTypes(), events.TypeDismissed)
}

func TestUnknownConversation(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)

	_, err := f.engine.HandleUtterance(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = f.engine.Submit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	err = f.engine.Dismiss(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestEmptyUtteranceIsIgnored(t *testing.T) {
	var calls int32
	srv := newOrderBackend(t, &calls)
	f := newEngineFixture(t, srv.URL, time.Minute)
	conv := f.startConversation(t)

	res, err := f.engine.HandleUtterance(context.Background(), conv.ID, "")

	require.NoError(t, err)
	assert.Empty(t, res.Reply)
	assert.Equal(t, store.StateAwaitingInput, res.Conversation.State)
	assert.Empty(t, res.Conversation.LastHeard)
}
