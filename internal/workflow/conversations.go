package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

var anyRole = []shared.Role{shared.RoleClient, shared.RoleOwner, shared.RoleAdmin}

// GetOrCreateConversation returns the conversation between the caller and the listing's owner
// about that listing, creating it on first contact. created reports whether this call created it.
func (e *Engine) GetOrCreateConversation(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (conv *messaging.Conversation, created bool, err error) {
	if err := caller.Require(anyRole...); err != nil {
		return nil, false, err
	}
	logger := e.loggerFor(caller, "get_or_create_conversation")

	err = e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		l, err := s.Listings.GetByID(ctx, propertyID)
		if err != nil {
			return err
		}
		if l.IsOwnedBy(caller.UserID) {
			return shared.ErrSelfConversation{PropertyID: propertyID.String()}
		}

		a, b := messaging.SortedPair(caller.UserID, l.OwnerID)
		existing, err := s.Conversations.FindByKey(ctx, propertyID, a, b)
		if err == nil {
			conv = existing
			conv.PropertyTitle = l.Title
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound{}) {
			return err
		}

		candidate := messaging.NewConversation(propertyID, caller.UserID, l.OwnerID, e.clock())
		inserted, err := s.Conversations.CreateIfAbsent(ctx, candidate)
		if err != nil {
			return err
		}

		// a concurrent first contact may have won the insert; read back whichever row exists
		conv, err = s.Conversations.FindByKey(ctx, propertyID, a, b)
		if err != nil {
			return err
		}
		conv.PropertyTitle = l.Title
		created = inserted
		return nil
	})
	if err != nil {
		logger.Info("Get or create conversation failed", "property_id", propertyID.String(), "error", err)
		return nil, false, err
	}

	if created {
		logger.Info("Conversation created", "conversation_id", conv.ID.String(), "property_id", propertyID.String())
	}
	return conv, created, nil
}

// SendMessage appends a message from a participant and bumps the conversation's updatedAt
func (e *Engine) SendMessage(ctx context.Context, caller shared.Caller, conversationID uuid.UUID, text string) (*messaging.Message, error) {
	if err := caller.Require(anyRole...); err != nil {
		return nil, err
	}
	if err := messaging.ValidateText(text); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "send_message")

	var msg *messaging.Message
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if _, err := participantConversation(ctx, s, caller, conversationID); err != nil {
			return err
		}

		now := e.clock()
		msg = messaging.NewMessage(conversationID, caller.UserID, text, now)
		if err := s.Conversations.AddMessage(ctx, msg); err != nil {
			return err
		}
		return s.Conversations.Touch(ctx, conversationID, now)
	})
	if err != nil {
		logger.Info("Send message failed", "conversation_id", conversationID.String(), "error", err)
		return nil, err
	}

	logger.Debug("Message sent", "conversation_id", conversationID.String(), "message_id", msg.ID.String())
	return msg, nil
}

// MarkRead flags every message the other participant sent as read and returns how many changed
func (e *Engine) MarkRead(ctx context.Context, caller shared.Caller, conversationID uuid.UUID) (int64, error) {
	if err := caller.Require(anyRole...); err != nil {
		return 0, err
	}

	var changed int64
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if _, err := participantConversation(ctx, s, caller, conversationID); err != nil {
			return err
		}

		var err error
		changed, err = s.Conversations.MarkRead(ctx, conversationID, caller.UserID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func participantConversation(ctx context.Context, s Stores, caller shared.Caller, id uuid.UUID) (*messaging.Conversation, error) {
	conv, err := s.Conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(caller.UserID) {
		return nil, shared.ErrForbidden{Reason: "caller is not a participant of this conversation"}
	}
	return conv, nil
}
