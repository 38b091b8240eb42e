package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in a buyer/supplier conversation.
type Message struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID  `gorm:"column:conversation_id;type:uuid;not null;index:messages_conversation_id_idx"`
	SenderID       uuid.UUID  `gorm:"column:sender_id;type:uuid;not null"`
	RecipientID    uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index:messages_recipient_id_idx"`
	Body           string     `gorm:"column:body;not null"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
