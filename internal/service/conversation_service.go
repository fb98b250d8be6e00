package service

import (
	"errors"
	"strings"

	"github.com/eventsphere/backend/internal/models"
)

var (
	ErrEmptyUsernames       = errors.New("please enter at least one username")
	ErrUsernamesNotFound    = errors.New("one or more usernames were not found")
	ErrSelfConversation     = errors.New("you cannot start a conversation with yourself")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not part of this conversation")
	ErrEmptyMessage         = errors.New("message text is required")
	ErrUserNotFound         = errors.New("no user with that username exists")
	ErrAlreadyMember        = errors.New("that user is already in this group")
	ErrNotAMember           = errors.New("that user is not in this conversation")
)

// ConversationStore is the persistence surface the conversation engine
// needs. *repository.ConversationRepository satisfies it.
type ConversationStore interface {
	CreateConversation(conv *models.Conversation, participantIDs []uint) error
	GetConversation(id uint) (*models.Conversation, error)
	FindDirectBetween(userA, userB uint) (*models.Conversation, error)
	AddParticipant(conversationID, userID uint) error
	IsParticipant(conversationID, userID uint) (bool, error)
	ParticipantCount(conversationID uint) (int64, error)
	UpdateName(conversationID uint, name string) error
	ListWithMessages(userID uint) ([]models.Conversation, error)
	CreateMessage(msg *models.Message) error
	ListMessages(conversationID uint) ([]models.Message, error)
	LatestMessage(conversationID uint) (*models.Message, error)
	UnreadCount(conversationID, userID uint) (int64, error)
	MarkRead(conversationID, userID uint) error
	ListNicknames(conversationID uint) ([]models.ConversationNickname, error)
	UpsertNickname(conversationID, userID uint, nickname string) error
}

// UserDirectory resolves usernames to accounts.
// *repository.UserRepository satisfies it.
type UserDirectory interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByUsernames(usernames []string) ([]models.User, error)
}

type ConversationService struct {
	store ConversationStore
	users UserDirectory
}

func NewConversationService(store ConversationStore, users UserDirectory) *ConversationService {
	return &ConversationService{
		store: store,
		users: users,
	}
}

// Start creates a conversation with the given users, or returns the
// existing direct conversation when exactly one target is named. All
// usernames must resolve before anything is created.
func (s *ConversationService) Start(actingUser *models.User, rawUsernames []string) (*models.Conversation, error) {
	usernames := dedupeUsernames(rawUsernames)
	if len(usernames) == 0 {
		return nil, ErrEmptyUsernames
	}

	targets, err := s.users.GetByUsernames(usernames)
	if err != nil {
		return nil, err
	}
	if len(targets) != len(usernames) {
		return nil, ErrUsernamesNotFound
	}

	for _, name := range usernames {
		if name == actingUser.Username {
			return nil, ErrSelfConversation
		}
	}

	// Direct conversations are unique per pair. There is no database
	// constraint expressing that, so look up before creating.
	if len(targets) == 1 {
		existing, err := s.store.FindDirectBetween(actingUser.ID, targets[0].ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		conv := &models.Conversation{}
		if err := s.store.CreateConversation(conv, []uint{actingUser.ID, targets[0].ID}); err != nil {
			return nil, err
		}
		return conv, nil
	}

	participantIDs := make([]uint, 0, len(targets)+1)
	participantIDs = append(participantIDs, actingUser.ID)
	for _, u := range targets {
		participantIDs = append(participantIDs, u.ID)
	}

	conv := &models.Conversation{}
	if err := s.store.CreateConversation(conv, participantIDs); err != nil {
		return nil, err
	}
	return conv, nil
}

// PostMessage appends an immutable message. The caller is responsible
// for having verified that sender is a participant.
func (s *ConversationService) PostMessage(conversationID, senderID uint, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	return s.store.CreateMessage(&models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	})
}

// GetConversation returns the full detail view and marks every unseen
// message as read for the viewer. The list view deliberately does not
// do this.
func (s *ConversationService) GetConversation(conversationID uint, viewer *models.User) (*models.ConversationDetail, error) {
	conv, err := s.store.GetConversation(conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	member, err := s.store.IsParticipant(conversationID, viewer.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotParticipant
	}

	if err := s.store.MarkRead(conversationID, viewer.ID); err != nil {
		return nil, err
	}

	nicknames, err := s.nicknameMap(conversationID)
	if err != nil {
		return nil, err
	}

	detail := &models.ConversationDetail{
		ID:        conv.ID,
		Name:      conv.Name,
		CreatedAt: conv.CreatedAt,
	}

	for _, p := range conv.Participants {
		detail.Participants = append(detail.Participants, models.ParticipantView{
			UserID:      p.ID,
			Username:    p.Username,
			DisplayName: displayName(nicknames, p),
			IsMe:        p.ID == viewer.ID,
		})
		if p.ID != viewer.ID {
			detail.Others = append(detail.Others, displayName(nicknames, p))
		}
	}

	messages, err := s.store.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}

	senders := make(map[uint]models.User, len(conv.Participants))
	for _, p := range conv.Participants {
		senders[p.ID] = p
	}

	for _, msg := range messages {
		name := displayName(nicknames, senders[msg.SenderID])
		if name == "" {
			// Sender left no participant record; fall back to the directory.
			if u, err := s.users.GetByID(msg.SenderID); err == nil {
				name = displayName(nicknames, *u)
			}
		}
		detail.Messages = append(detail.Messages, models.MessageView{
			ID:         msg.ID,
			SenderID:   msg.SenderID,
			SenderName: name,
			Text:       msg.Text,
			IsMe:       msg.SenderID == viewer.ID,
			CreatedAt:  msg.CreatedAt,
		})
	}

	return detail, nil
}

// List returns the viewer's conversations that contain at least one
// message, newest-created first. Empty conversations are "not yet
// started" and stay hidden. Reading the list never marks anything read.
func (s *ConversationService) List(viewer *models.User) ([]models.ConversationSummary, error) {
	convs, err := s.store.ListWithMessages(viewer.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		nicknames, err := s.nicknameMap(conv.ID)
		if err != nil {
			return nil, err
		}

		latest, err := s.store.LatestMessage(conv.ID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		var others []string
		var latestSender string
		for _, p := range conv.Participants {
			if p.ID != viewer.ID {
				others = append(others, displayName(nicknames, p))
			}
			if p.ID == latest.SenderID {
				latestSender = displayName(nicknames, p)
			}
		}
		if latestSender == "" {
			if u, err := s.users.GetByID(latest.SenderID); err == nil {
				latestSender = displayName(nicknames, *u)
			}
		}

		unread, err := s.store.UnreadCount(conv.ID, viewer.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, models.ConversationSummary{
			ID:           conv.ID,
			Name:         conv.Name,
			Others:       others,
			LatestSender: latestSender,
			LatestText:   latest.Text,
			LatestTime:   latest.CreatedAt,
			UnreadCount:  unread,
		})
	}

	return summaries, nil
}

// AddParticipant adds a user by username. Whether the acting user must
// themselves be a member is an open product decision; for now only the
// target is checked, matching the current behavior.
func (s *ConversationService) AddParticipant(conversationID uint, actingUser *models.User, username string) error {
	if _, err := s.store.GetConversation(conversationID); err != nil {
		return ErrConversationNotFound
	}

	target, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return ErrUserNotFound
	}

	member, err := s.store.IsParticipant(conversationID, target.ID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}

	return s.store.AddParticipant(conversationID, target.ID)
}

// Rename sets a group conversation's display name. Direct conversations
// cannot be renamed, and a blank name is silently ignored.
func (s *ConversationService) Rename(conversationID uint, actingUser *models.User, name string) error {
	member, err := s.store.IsParticipant(conversationID, actingUser.ID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotParticipant
	}

	count, err := s.store.ParticipantCount(conversationID)
	if err != nil {
		return err
	}
	if count <= 2 {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	return s.store.UpdateName(conversationID, name)
}

// SetNickname upserts the display-name override for a member of the
// conversation. An empty nickname is stored and displays as the
// member's username.
func (s *ConversationService) SetNickname(conversationID uint, actingUser *models.User, targetUserID uint, nickname string) error {
	member, err := s.store.IsParticipant(conversationID, targetUserID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotAMember
	}

	return s.store.UpsertNickname(conversationID, targetUserID, strings.TrimSpace(nickname))
}

// IsParticipant is the membership precondition handlers check before
// letting a user post into a conversation.
func (s *ConversationService) IsParticipant(conversationID, userID uint) (bool, error) {
	return s.store.IsParticipant(conversationID, userID)
}

func (s *ConversationService) nicknameMap(conversationID uint) (map[uint]string, error) {
	nicknames, err := s.store.ListNicknames(conversationID)
	if err != nil {
		return nil, err
	}
	m := make(map[uint]string, len(nicknames))
	for _, n := range nicknames {
		m[n.UserID] = n.Nickname
	}
	return m, nil
}

// displayName resolves what a user is called inside one conversation:
// their nickname when one is set and non-empty, else their username.
func displayName(nicknames map[uint]string, user models.User) string {
	if nick, ok := nicknames[user.ID]; ok && nick != "" {
		return nick
	}
	return user.Username
}

func dedupeUsernames(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
