package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/repository"
	"github.com/google/uuid"
)

type conversationService struct {
	conversations repository.ConversationRepo
	engine        *interview.Engine
	observer      UseCaseObserver
}

func NewConversationService(
	conversations repository.ConversationRepo,
	engine *interview.Engine,
	observers ...UseCaseObserver,
) ConversationService {
	return &conversationService{
		conversations: conversations,
		engine:        engine,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *conversationService) Start(ctx context.Context) (conv *domain.Conversation, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "start-interview", startedAt, fields, &err)

	state := s.engine.Start()
	conv = &domain.Conversation{
		ID:         uuid.New().String(),
		State:      state,
		Transcript: []domain.Turn{assistantTurn(s.engine.Question(state.Current))},
	}
	fields["conversation_id"] = conv.ID
	if err = s.conversations.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

// Answer feeds one user answer to the engine and persists the resulting
// state and transcript. A rejected answer is not an error: it is recorded and
// reported through Result so the caller can ask again.
func (s *conversationService) Answer(ctx context.Context, id, text string) (ar *AnswerResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"conversation_id": id}
	defer observe(ctx, s.observer, "answer", startedAt, fields, &err)

	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.State.IsComplete() {
		return nil, fmt.Errorf("conversation %s: %w", id, interview.ErrAlreadyComplete)
	}

	step := conv.State.Current
	next, res := s.engine.AcceptAnswer(conv.State, text)
	fields["step"] = string(step)
	fields["accepted"] = res.Success

	conv.State = next
	conv.Transcript = append(conv.Transcript, userTurn(text))
	if reply := assistantReply(res); reply != "" {
		conv.Transcript = append(conv.Transcript, assistantTurn(reply))
	}
	if err = s.conversations.Update(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	return &AnswerResult{Conversation: conv, Result: res}, nil
}

func (s *conversationService) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.conversations.GetByID(ctx, id)
}

func (s *conversationService) List(ctx context.Context, limit int) ([]*domain.Conversation, error) {
	return s.conversations.ListRecent(ctx, limit)
}

func (s *conversationService) Question(c *domain.Conversation) string {
	if c == nil || c.State.IsComplete() {
		return ""
	}
	return s.engine.Question(c.State.Current)
}

func (s *conversationService) CheckRealism(ctx context.Context, id string, estimatedSessions int) (interview.Advice, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return interview.Advice{}, err
	}
	return s.engine.CheckTimelineRealism(conv.State, estimatedSessions)
}

// assistantReply is what the assistant says after an answer: the problem
// and the repeated question on rejection, otherwise any warning followed by
// the next question.
func assistantReply(res interview.Result) string {
	var parts []string
	if !res.Success {
		parts = append(parts, res.Error)
	}
	if res.Warning != "" {
		parts = append(parts, res.Warning)
	}
	if res.NextQuestion != "" {
		parts = append(parts, res.NextQuestion)
	}
	return strings.Join(parts, " ")
}
