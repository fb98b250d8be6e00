package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventsphere/backend/internal/models"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateConversation creates the conversation and its participant rows
// in one transaction.
func (r *ConversationRepository) CreateConversation(conv *models.Conversation, participantIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Create(conv).Error; err != nil {
			return err
		}
		users := make([]models.User, 0, len(participantIDs))
		for _, id := range participantIDs {
			users = append(users, models.User{ID: id})
		}
		return tx.Model(conv).Association("Participants").Append(users)
	})
}

func (r *ConversationRepository) GetConversation(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Preload("Participants").First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindDirectBetween looks up the two-person conversation containing
// both users, if one exists. There is no storage-level constraint for
// this, so callers must check here before creating a direct thread.
func (r *ConversationRepository) FindDirectBetween(userA, userB uint) (*models.Conversation, error) {
	var convID uint
	err := r.db.Raw(`
		SELECT cp.conversation_id
		FROM conversation_participants cp
		WHERE cp.user_id IN (?, ?)
		GROUP BY cp.conversation_id
		HAVING COUNT(DISTINCT cp.user_id) = 2
		AND (
			SELECT COUNT(*) FROM conversation_participants p
			WHERE p.conversation_id = cp.conversation_id
		) = 2
		LIMIT 1`, userA, userB).Scan(&convID).Error
	if err != nil {
		return nil, err
	}
	if convID == 0 {
		return nil, nil
	}
	return r.GetConversation(convID)
}

func (r *ConversationRepository) AddParticipant(conversationID, userID uint) error {
	conv := models.Conversation{ID: conversationID}
	return r.db.Model(&conv).Association("Participants").Append(&models.User{ID: userID})
}

func (r *ConversationRepository) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("conversation_participants").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ConversationRepository) ParticipantCount(conversationID uint) (int64, error) {
	var count int64
	err := r.db.Table("conversation_participants").
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

func (r *ConversationRepository) UpdateName(conversationID uint, name string) error {
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("name", name).Error
}

// ListWithMessages returns the viewer's conversations that have at
// least one message, newest-created first.
func (r *ConversationRepository) ListWithMessages(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Where("EXISTS (SELECT 1 FROM messages m WHERE m.conversation_id = conversations.id)").
		Order("conversations.created_at DESC").
		Preload("Participants").
		Find(&convs).Error
	return convs, err
}

func (r *ConversationRepository) CreateMessage(msg *models.Message) error {
	return r.db.Create(msg).Error
}

func (r *ConversationRepository) ListMessages(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *ConversationRepository) LatestMessage(conversationID uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ConversationRepository) UnreadCount(conversationID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", conversationID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

// MarkRead inserts a read receipt for every unseen message from other
// senders. ON CONFLICT DO NOTHING keeps re-invocations and concurrent
// viewers idempotent.
func (r *ConversationRepository) MarkRead(conversationID, userID uint) error {
	var ids []uint
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", conversationID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	reads := make([]models.MessageRead, 0, len(ids))
	for _, id := range ids {
		reads = append(reads, models.MessageRead{MessageID: id, UserID: userID})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reads).Error
}

func (r *ConversationRepository) ListNicknames(conversationID uint) ([]models.ConversationNickname, error) {
	var nicknames []models.ConversationNickname
	err := r.db.Where("conversation_id = ?", conversationID).Find(&nicknames).Error
	return nicknames, err
}

func (r *ConversationRepository) UpsertNickname(conversationID, userID uint, nickname string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname"}),
	}).Create(&models.ConversationNickname{
		ConversationID: conversationID,
		UserID:         userID,
		Nickname:       nickname,
	}).Error
}
