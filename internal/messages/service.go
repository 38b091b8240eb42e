package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

// conversationNamespace seeds deterministic conversation ids, so both
// participants derive the same id without a lookup table.
var conversationNamespace = uuid.MustParse("7b0c2a6e-5a1d-4f3e-9b0a-2f4f8f1d6c3a")

// ConversationID derives the stable conversation id for a pair of users,
// independent of who writes first.
func ConversationID(a, b uuid.UUID) uuid.UUID {
	lo, hi := a, b
	if strings.Compare(hi.String(), lo.String()) < 0 {
		lo, hi = hi, lo
	}
	return uuid.NewSHA1(conversationNamespace, []byte(lo.String()+hi.String()))
}

// MessageDTO is the API shape of one conversation entry.
type MessageDTO struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversationId"`
	SenderID       uuid.UUID  `json:"senderId"`
	RecipientID    uuid.UUID  `json:"recipientId"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ConversationDTO is one page of messages plus the continuation cursor.
type ConversationDTO struct {
	ConversationID uuid.UUID    `json:"conversationId"`
	Messages       []MessageDTO `json:"messages"`
	NextCursor     string       `json:"nextCursor,omitempty"`
}

// Service exposes the buyer/supplier messaging surface.
type Service interface {
	SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*MessageDTO, error)
	ListConversation(ctx context.Context, userID, otherID uuid.UUID, cursor string, limit int) (*ConversationDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a message service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	return &service{repo: repo}, nil
}

// SendMessage appends a message to the pair's conversation.
func (s *service) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*MessageDTO, error) {
	if recipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id is required")
	}
	if recipientID == senderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	message := &models.Message{
		ConversationID: ConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Body:           trimmed,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert message")
	}
	return newMessageDTO(message), nil
}

// ListConversation pages through the caller's conversation with another user
// and marks messages addressed to the caller as read.
func (s *service) ListConversation(ctx context.Context, userID, otherID uuid.UUID, cursor string, limit int) (*ConversationDTO, error) {
	if otherID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation partner is required")
	}

	conversationID := ConversationID(userID, otherID)
	page, err := s.repo.ListConversation(ctx, conversationID, cursor, limit)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversation")
	}

	if err := s.repo.MarkConversationRead(ctx, conversationID, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark conversation read")
	}

	dtos := make([]MessageDTO, len(page.Items))
	for i := range page.Items {
		dtos[i] = *newMessageDTO(&page.Items[i])
	}
	return &ConversationDTO{
		ConversationID: conversationID,
		Messages:       dtos,
		NextCursor:     page.NextCursor,
	}, nil
}

func newMessageDTO(message *models.Message) *MessageDTO {
	return &MessageDTO{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		RecipientID:    message.RecipientID,
		Body:           message.Body,
		ReadAt:         message.ReadAt,
		CreatedAt:      message.CreatedAt,
	}
}
