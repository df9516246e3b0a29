package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/repository"
)

// Service handles direct messages between users.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	messages *repository.MessageRepository
}

// NewMessagingService creates a new messaging service with dependencies from AppContext.
func NewMessagingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// Send appends a message from sender to recipient.
//
// Behavior:
//   - ErrEmptyMessage if body is blank after trimming.
//   - ErrInvalidRecipient if recipient doesn't exist.
//   - No match is required between the two users.
//
// Example:
//
//	msg, err := svc.Send(ctx, alice.ID, bob.ID, "hi")
func (s *Service) Send(ctx context.Context, senderID, recipientID uint64, body string) (*db.Message, error) {
	s.appCtx.Logger.DebugContext(ctx, "Send called", "sender", senderID, "recipient", recipientID)

	if strings.TrimSpace(body) == "" {
		return nil, svcErr.ErrEmptyMessage
	}

	ok, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	if !ok {
		return nil, svcErr.ErrInvalidRecipient
	}

	msg := &db.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Conversations lists everyone userID has sent to or received from, once
// each, in id order.
func (s *Service) Conversations(ctx context.Context, userID uint64) ([]db.User, error) {
	ids, err := s.messages.PartnerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation partners: %w", err)
	}
	return s.users.ListByIDs(ctx, ids)
}

// Conversation returns the thread between userID and otherID, oldest
// first. ErrNotFound if otherID doesn't exist.
func (s *Service) Conversation(ctx context.Context, userID, otherID uint64) ([]db.Message, error) {
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, svcErr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup partner: %w", err)
	}

	msgs, err := s.messages.Between(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	return msgs, nil
}
