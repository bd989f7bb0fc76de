package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

type ConversationServiceImpl struct {
	conversations messaging.Repository
	workflows     Workflows
}

func NewConversationService(conversations messaging.Repository, workflows Workflows) ConversationService {
	return &ConversationServiceImpl{
		conversations: conversations,
		workflows:     workflows,
	}
}

func (s *ConversationServiceImpl) Open(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (*messaging.Conversation, bool, error) {
	return s.workflows.GetOrCreateConversation(ctx, caller, propertyID)
}

// List returns the caller's conversations, most recently active first
func (s *ConversationServiceImpl) List(ctx context.Context, caller shared.Caller) ([]*messaging.Conversation, error) {
	if caller.UserID == "" {
		return nil, shared.ErrForbidden{Reason: "unauthenticated caller"}
	}
	return nonNil(s.conversations.ListForUser(ctx, caller.UserID))
}

// Messages returns the conversation's messages, oldest first. Only participants may read them.
func (s *ConversationServiceImpl) Messages(ctx context.Context, caller shared.Caller, id uuid.UUID) ([]*messaging.Message, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(caller.UserID) {
		return nil, shared.ErrForbidden{Reason: "caller is not a participant of this conversation"}
	}
	return nonNil(s.conversations.ListMessages(ctx, id))
}

func (s *ConversationServiceImpl) Send(ctx context.Context, caller shared.Caller, id uuid.UUID, text string) (*messaging.Message, error) {
	return s.workflows.SendMessage(ctx, caller, id, text)
}

func (s *ConversationServiceImpl) MarkRead(ctx context.Context, caller shared.Caller, id uuid.UUID) (int64, error) {
	return s.workflows.MarkRead(ctx, caller, id)
}
