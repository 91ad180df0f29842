package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is an unordered set of two or more participants.
// ParticipantKey is the normalized hash of the sorted participant IDs; the
// unique index on it is what prevents duplicate conversations for the same
// participant set under concurrency.
type Conversation struct {
	ID             uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ParticipantKey string                    `gorm:"column:participant_key;type:text;not null;uniqueIndex:idx_conversations_participant_key" json:"-"`
	LastMessageAt  *time.Time                `gorm:"column:last_message_at" json:"last_message_at"`
	Participants   []ConversationParticipant `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	CreatedAt      time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ConversationParticipant joins one user into one conversation.
type ConversationParticipant struct {
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;primaryKey" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
