package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/domain"
	"github.com/Karim-Bennia/minirag-console/internal/minirag"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
)

// FallbackAnswer is the assistant content substituted when a query fails.
// The transcript still advances by one assistant turn; the error detail is
// kept separately for the session state view.
const FallbackAnswer = "Sorry, there was an error processing your request."

// ChatService owns the in-memory session transcript and serializes question
// submissions against the backend query endpoint, scoped to the current
// (project, file) selection.
type ChatService struct {
	cfg     *config.Config
	backend *minirag.Client
	state   *repository.StateRepository
	logger  *zap.Logger

	mu        sync.Mutex
	busy      bool
	messages  []*domain.Message
	lastError string
}

// NewChatService creates a new chat service. backend may be nil when no
// base URL is configured; submissions are then rejected per-call.
func NewChatService(
	cfg *config.Config,
	backend *minirag.Client,
	state *repository.StateRepository,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		cfg:     cfg,
		backend: backend,
		state:   state,
		logger:  logger,
	}
}

// Submit handles one question. Preconditions (empty question, request in
// flight, missing selection, unconfigured backend) reject with a sentinel
// error and leave the transcript untouched. An accepted submission appends
// the user message immediately, then exactly one assistant message: the
// backend answer with its sources, or the fallback on any failure.
func (s *ChatService) Submit(ctx context.Context, question string) (*domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}

	selection := s.state.Selection()
	if selection.ProjectID == "" {
		s.mu.Unlock()
		return nil, domain.ErrNoProject
	}
	if selection.ActiveFileID == "" {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveFile
	}
	if s.backend == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotConfigured
	}

	// Accepted: commit the user turn before the network round trip
	userMsg := &domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, userMsg)
	s.busy = true
	s.lastError = ""
	s.mu.Unlock()

	result, err := s.backend.Query(ctx, selection.ProjectID, selection.ActiveFileID, question)

	s.mu.Lock()
	defer s.mu.Unlock()

	assistantMsg := &domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleAssistant,
		CreatedAt: time.Now(),
	}
	if err != nil {
		s.logger.Warn("query failed",
			zap.String("project_id", selection.ProjectID),
			zap.String("file_id", selection.ActiveFileID),
			zap.Error(err),
		)
		s.lastError = err.Error()
		assistantMsg.Content = FallbackAnswer
	} else {
		assistantMsg.Content = result.Answer
		assistantMsg.Sources = result.Sources
		// result.Reasoning is accepted by the contract but not surfaced
	}
	s.messages = append(s.messages, assistantMsg)
	s.busy = false

	return assistantMsg, nil
}

// Messages returns a snapshot of the transcript in append order
func (s *ChatService) Messages() []*domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]*domain.Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// Busy reports whether a query is in flight
func (s *ChatService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError returns the detail of the most recent query failure, cleared on
// the next accepted submission
func (s *ChatService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
