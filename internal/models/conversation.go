package models

import (
	"time"
)

type Conversation struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Participants []User    `json:"participants,omitempty" gorm:"many2many:conversation_participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsDirect reports whether this is a two-person conversation. Direct
// conversations cannot be renamed and there is at most one per pair.
func (c *Conversation) IsDirect() bool {
	return len(c.Participants) == 2
}

// Message is immutable once created.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	Text           string    `json:"text" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationNickname overrides the display name of a user inside a
// single conversation. An empty nickname falls back to the username.
type ConversationNickname struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ConversationID uint   `json:"conversation_id" gorm:"not null;uniqueIndex:idx_conversation_user"`
	UserID         uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_conversation_user"`
	Nickname       string `json:"nickname"`
}

// MessageRead marks that a user has seen a message. Absence means
// unread. Senders never get a row for their own messages.
type MessageRead struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MessageID uint      `json:"message_id" gorm:"not null;uniqueIndex:idx_message_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_message_user"`
	ReadAt    time.Time `json:"read_at" gorm:"autoCreateTime"`
}

type StartConversationRequest struct {
	Usernames []string `json:"usernames" validate:"required"`
}

type PostMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type AddParticipantRequest struct {
	Username string `json:"username" validate:"required"`
}

type RenameConversationRequest struct {
	Name string `json:"name"`
}

type SetNicknameRequest struct {
	TargetUserID uint   `json:"target_user_id" validate:"required"`
	Nickname     string `json:"nickname"`
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name,omitempty"`
	Others       []string  `json:"others"`
	LatestSender string    `json:"latest_sender"`
	LatestText   string    `json:"latest_text"`
	LatestTime   time.Time `json:"latest_time"`
	UnreadCount  int64     `json:"unread_count"`
}

type ParticipantView struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsMe        bool   `json:"is_me"`
}

type MessageView struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	IsMe       bool      `json:"is_me"`
	CreatedAt  time.Time `json:"created_at"`
}

type ConversationDetail struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Participants []ParticipantView `json:"participants"`
	Others       []string          `json:"others"`
	Messages     []MessageView     `json:"messages"`
}
