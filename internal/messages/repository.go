package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencecomx/sourcing-backend/internal/repo"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
)

// Repository wraps the generic gateway with conversation queries.
type Repository struct {
	*repo.Gateway[models.Message]
	db *gorm.DB
}

// NewRepository constructs a message repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Gateway: repo.NewGateway[models.Message](db),
		db:      db,
	}
}

// ConversationPage is one page of a conversation, newest first.
type ConversationPage struct {
	Items      []models.Message
	NextCursor string
}

// ListConversation returns a cursor-paginated slice of one conversation.
func (r *Repository) ListConversation(ctx context.Context, conversationID uuid.UUID, cursor string, limit int) (*ConversationPage, error) {
	page, err := r.List(ctx, repo.ListQuery{
		Filters: map[string]any{"conversation_id": conversationID},
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, err
	}
	return &ConversationPage{Items: page.Items, NextCursor: page.NextCursor}, nil
}

// MarkConversationRead stamps every unread message addressed to the user.
func (r *Repository) MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND read_at IS NULL", conversationID, recipientID).
		Update("read_at", gorm.Expr("NOW()")).Error
}
