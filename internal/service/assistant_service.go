package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"voice-intake-be/internal/dto"
	"voice-intake-be/internal/repository/memory"
	"voice-intake-be/pkg/dialogue"
	"voice-intake-be/pkg/dialogue/session"
	"voice-intake-be/pkg/dialogue/state"
	"voice-intake-be/pkg/orders"
	"voice-intake-be/pkg/speech"
	"voice-intake-be/pkg/store"

	"github.com/google/uuid"
)

// IAssistantService defines the voice order assistant service interface
type IAssistantService interface {
	StartConversation(ctx context.Context, userId uuid.UUID) (*dto.StartConversationResponse, error)
	HandleUtterance(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, request *dto.UtteranceRequest) (*dto.TurnResponse, error)
	Submit(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.TurnResponse, error)
	Restart(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.StartConversationResponse, error)
	Dismiss(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error
	GetTranscript(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.TurnDTO, error)
}

// assistantService coordinates the dialogue domain components per
// conversation and enforces conversation ownership at the boundary.
type assistantService struct {
	sessionManager *session.Manager
	engine         *dialogue.Engine
	dialogueLogger *log.Logger
}

// NewAssistantService creates the assistant service with all domain components
func NewAssistantService(
	conversationRepo *memory.ConversationRepository,
	ordersClient *orders.Client,
	publisher IPublisherService,
	observationDelay time.Duration,
	automationMethod string,
) IAssistantService {

	dialogueLogger := initDialogueLogger()

	sessionManager := session.NewManager(conversationRepo, automationMethod)
	stateManager := state.NewManager(dialogueLogger)
	speechChannel := speech.NewBusChannel(publisher, dialogueLogger)
	submitter := orders.NewSubmitter(ordersClient, publisher, speechChannel, dialogueLogger)

	engine := dialogue.NewEngine(
		sessionManager,
		stateManager,
		submitter,
		speechChannel,
		publisher,
		dialogueLogger,
		observationDelay,
	)

	return &assistantService{
		sessionManager: sessionManager,
		engine:         engine,
		dialogueLogger: dialogueLogger,
	}
}

func initDialogueLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "dialogue.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[DIALOGUE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// StartConversation opens a fresh conversation and greets the user.
func (as *assistantService) StartConversation(ctx context.Context, userId uuid.UUID) (*dto.StartConversationResponse, error) {
	conv := as.sessionManager.Create(uuid.New().String(), userId.String())
	greeting := as.engine.Start(ctx, conv)

	return &dto.StartConversationResponse{
		ConversationId: uuid.MustParse(conv.ID),
		State:          conv.State,
		Greeting:       greeting,
		CreatedAt:      conv.CreatedAt,
	}, nil
}

// HandleUtterance feeds one finalized transcript into the dialogue engine.
func (as *assistantService) HandleUtterance(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, request *dto.UtteranceRequest) (*dto.TurnResponse, error) {
	if _, err := as.ownedConversation(userId, conversationId); err != nil {
		return nil, err
	}

	result, err := as.engine.HandleUtterance(ctx, conversationId.String(), request.Text)
	if err != nil {
		return nil, err
	}
	return toTurnResponse(result), nil
}

// Submit handles the explicit submit action (the dashboard footer button).
func (as *assistantService) Submit(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.TurnResponse, error) {
	if _, err := as.ownedConversation(userId, conversationId); err != nil {
		return nil, err
	}

	result, err := as.engine.Submit(ctx, conversationId.String())
	if err != nil {
		return nil, err
	}
	return toTurnResponse(result), nil
}

// Restart clears the conversation back to the greeting.
func (as *assistantService) Restart(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.StartConversationResponse, error) {
	if _, err := as.ownedConversation(userId, conversationId); err != nil {
		return nil, err
	}

	conv, err := as.engine.Restart(ctx, conversationId.String())
	if err != nil {
		return nil, err
	}
	return &dto.StartConversationResponse{
		ConversationId: conversationId,
		State:          conv.State,
		Greeting:       lastAssistantText(conv),
		CreatedAt:      conv.CreatedAt,
	}, nil
}

// Dismiss closes the conversation and stops speech I/O.
func (as *assistantService) Dismiss(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error {
	if _, err := as.ownedConversation(userId, conversationId); err != nil {
		return err
	}
	return as.engine.Dismiss(ctx, conversationId.String())
}

// GetTranscript returns the append-only conversation history.
func (as *assistantService) GetTranscript(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.TurnDTO, error) {
	conv, err := as.ownedConversation(userId, conversationId)
	if err != nil {
		return nil, err
	}

	transcript := make([]*dto.TurnDTO, 0, len(conv.History))
	for _, turn := range conv.History {
		transcript = append(transcript, &dto.TurnDTO{
			Role:      turn.Role,
			Text:      turn.Text,
			Timestamp: turn.Timestamp,
		})
	}
	return transcript, nil
}

// ownedConversation loads the conversation and verifies ownership. Unknown
// and foreign conversations are indistinguishable to the caller.
func (as *assistantService) ownedConversation(userId uuid.UUID, conversationId uuid.UUID) (*store.Conversation, error) {
	conv, ok := as.sessionManager.Get(conversationId.String())
	if !ok || conv.UserID != userId.String() {
		return nil, dialogue.ErrConversationNotFound
	}
	return conv, nil
}

func toTurnResponse(result *dialogue.TurnResult) *dto.TurnResponse {
	conv := result.Conversation

	resp := &dto.TurnResponse{
		ConversationId: uuid.MustParse(conv.ID),
		State:          conv.State,
		Reply:          result.Reply,
		LastHeard:      conv.LastHeard,
		Slots: dto.SlotStateDTO{
			ProductName: conv.Slots.ProductName,
			Quantity:    conv.Slots.Quantity,
			Retailer:    conv.Slots.Retailer,
		},
		CollectedFields: conv.Slots.Collected(),
		MissingFields:   conv.Slots.Missing(),
		ReadyToSubmit:   conv.State == store.StateReadyToConfirm,
		Submitted:       result.Submitted,
		OrderId:         result.OrderID,
	}
	if conv.Slots.HasProductName() {
		resp.PreviewUrl = orders.SearchURL(conv.Slots.ProductName, conv.Slots.Retailer)
	}
	if result.SubmitErr != nil {
		resp.Error = result.Reply
	}
	return resp
}

func lastAssistantText(conv *store.Conversation) string {
	for i := len(conv.History) - 1; i >= 0; i-- {
		if conv.History[i].Role == store.RoleAssistant {
			return conv.History[i].Text
		}
	}
	return ""
}
