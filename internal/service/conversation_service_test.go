package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsphere/backend/internal/models"
)

// fakeConversationStore is an in-memory ConversationStore.
type fakeConversationStore struct {
	nextConvID uint
	nextMsgID  uint
	names      map[uint]string
	convs      map[uint]*models.Conversation
	messages   map[uint][]models.Message
	reads      map[uint]map[uint]bool
	nicknames  map[uint]map[uint]string
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		names:     make(map[uint]string),
		convs:     make(map[uint]*models.Conversation),
		messages:  make(map[uint][]models.Message),
		reads:     make(map[uint]map[uint]bool),
		nicknames: make(map[uint]map[uint]string),
	}
}

func (f *fakeConversationStore) CreateConversation(conv *models.Conversation, participantIDs []uint) error {
	f.nextConvID++
	conv.ID = f.nextConvID
	conv.CreatedAt = time.Now()
	for _, id := range participantIDs {
		conv.Participants = append(conv.Participants, models.User{
			ID:       id,
			Username: f.names[id],
		})
	}
	f.convs[conv.ID] = conv
	return nil
}

func (f *fakeConversationStore) GetConversation(id uint) (*models.Conversation, error) {
	conv, ok := f.convs[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return conv, nil
}

func (f *fakeConversationStore) FindDirectBetween(userA, userB uint) (*models.Conversation, error) {
	for _, conv := range f.convs {
		if len(conv.Participants) != 2 {
			continue
		}
		var hasA, hasB bool
		for _, p := range conv.Participants {
			hasA = hasA || p.ID == userA
			hasB = hasB || p.ID == userB
		}
		if hasA && hasB {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationStore) AddParticipant(conversationID, userID uint) error {
	conv, ok := f.convs[conversationID]
	if !ok {
		return fmt.Errorf("record not found")
	}
	conv.Participants = append(conv.Participants, models.User{
		ID:       userID,
		Username: f.names[userID],
	})
	return nil
}

func (f *fakeConversationStore) IsParticipant(conversationID, userID uint) (bool, error) {
	conv, ok := f.convs[conversationID]
	if !ok {
		return false, nil
	}
	for _, p := range conv.Participants {
		if p.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConversationStore) ParticipantCount(conversationID uint) (int64, error) {
	conv, ok := f.convs[conversationID]
	if !ok {
		return 0, nil
	}
	return int64(len(conv.Participants)), nil
}

func (f *fakeConversationStore) UpdateName(conversationID uint, name string) error {
	f.convs[conversationID].Name = name
	return nil
}

func (f *fakeConversationStore) ListWithMessages(userID uint) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, conv := range f.convs {
		if len(f.messages[conv.ID]) == 0 {
			continue
		}
		for _, p := range conv.Participants {
			if p.ID == userID {
				out = append(out, *conv)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeConversationStore) CreateMessage(msg *models.Message) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	msg.CreatedAt = time.Now()
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], *msg)
	return nil
}

func (f *fakeConversationStore) ListMessages(conversationID uint) ([]models.Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeConversationStore) LatestMessage(conversationID uint) (*models.Message, error) {
	msgs := f.messages[conversationID]
	if len(msgs) == 0 {
		return nil, nil
	}
	latest := msgs[len(msgs)-1]
	return &latest, nil
}

func (f *fakeConversationStore) UnreadCount(conversationID, userID uint) (int64, error) {
	var count int64
	for _, msg := range f.messages[conversationID] {
		if msg.SenderID == userID {
			continue
		}
		if !f.reads[msg.ID][userID] {
			count++
		}
	}
	return count, nil
}

func (f *fakeConversationStore) MarkRead(conversationID, userID uint) error {
	for _, msg := range f.messages[conversationID] {
		if msg.SenderID == userID {
			continue
		}
		if f.reads[msg.ID] == nil {
			f.reads[msg.ID] = make(map[uint]bool)
		}
		f.reads[msg.ID][userID] = true
	}
	return nil
}

func (f *fakeConversationStore) ListNicknames(conversationID uint) ([]models.ConversationNickname, error) {
	var out []models.ConversationNickname
	for userID, nick := range f.nicknames[conversationID] {
		out = append(out, models.ConversationNickname{
			ConversationID: conversationID,
			UserID:         userID,
			Nickname:       nick,
		})
	}
	return out, nil
}

func (f *fakeConversationStore) UpsertNickname(conversationID, userID uint, nickname string) error {
	if f.nicknames[conversationID] == nil {
		f.nicknames[conversationID] = make(map[uint]string)
	}
	f.nicknames[conversationID][userID] = nickname
	return nil
}

// fakeUserDirectory resolves a fixed set of users.
type fakeUserDirectory struct {
	users map[string]*models.User
}

func newFakeUserDirectory(usernames ...string) *fakeUserDirectory {
	dir := &fakeUserDirectory{users: make(map[string]*models.User)}
	for i, name := range usernames {
		dir.users[name] = &models.User{ID: uint(i + 1), Username: name}
	}
	return dir
}

func (f *fakeUserDirectory) GetByID(id uint) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (f *fakeUserDirectory) GetByUsername(username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return u, nil
}

func (f *fakeUserDirectory) GetByUsernames(usernames []string) ([]models.User, error) {
	var out []models.User
	for _, name := range usernames {
		if u, ok := f.users[name]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func newConversationFixture(usernames ...string) (*ConversationService, *fakeConversationStore, *fakeUserDirectory) {
	store := newFakeConversationStore()
	dir := newFakeUserDirectory(usernames...)
	for _, u := range dir.users {
		store.names[u.ID] = u.Username
	}
	return NewConversationService(store, dir), store, dir
}

func TestStartConversation(t *testing.T) {
	tcases := []struct {
		name      string
		usernames []string
		wantErr   error
	}{
		{
			name:      "no usernames",
			usernames: nil,
			wantErr:   ErrEmptyUsernames,
		},
		{
			name:      "whitespace only",
			usernames: []string{"  ", ""},
			wantErr:   ErrEmptyUsernames,
		},
		{
			name:      "unknown username",
			usernames: []string{"bob", "ghost"},
			wantErr:   ErrUsernamesNotFound,
		},
		{
			name:      "self conversation",
			usernames: []string{"alice"},
			wantErr:   ErrSelfConversation,
		},
		{
			name:      "direct",
			usernames: []string{"bob"},
		},
		{
			name:      "group",
			usernames: []string{"bob", "carol"},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, dir := newConversationFixture("alice", "bob", "carol")
			alice := dir.users["alice"]

			conv, err := svc.Start(alice, tc.usernames)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, conv.Participants, len(tc.usernames)+1)
		})
	}
}

func TestStartConversation_DirectIsUniquePerPair(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob")
	alice := dir.users["alice"]

	first, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)

	second, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "starting the same direct pair twice must reuse the conversation")

	// The other direction resolves to the same conversation too.
	bob := dir.users["bob"]
	third, err := svc.Start(bob, []string{"alice"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
}

func TestStartConversation_DuplicateUsernamesCollapse(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob")

	conv, err := svc.Start(dir.users["alice"], []string{"bob", " bob ", "bob"})
	require.NoError(t, err)
	assert.Len(t, conv.Participants, 2)
}

func TestPostMessage(t *testing.T) {
	svc, store, dir := newConversationFixture("alice", "bob")
	conv, err := svc.Start(dir.users["alice"], []string{"bob"})
	require.NoError(t, err)

	err = svc.PostMessage(conv.ID, dir.users["alice"].ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	err = svc.PostMessage(conv.ID, dir.users["alice"].ID, "  hello bob  ")
	require.NoError(t, err)

	msgs := store.messages[conv.ID]
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello bob", msgs[0].Text, "message text is trimmed")
}

func TestUnreadCounts(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob")
	alice, bob := dir.users["alice"], dir.users["bob"]

	conv, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)

	require.NoError(t, svc.PostMessage(conv.ID, alice.ID, "one"))
	require.NoError(t, svc.PostMessage(conv.ID, alice.ID, "two"))

	// Listing shows the unread count but never clears it.
	summaries, err := svc.List(bob)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].UnreadCount)

	summaries, err = svc.List(bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summaries[0].UnreadCount)

	// The sender owes nothing on their own messages.
	senderSide, err := svc.List(alice)
	require.NoError(t, err)
	require.Len(t, senderSide, 1)
	assert.Equal(t, int64(0), senderSide[0].UnreadCount)

	// Opening the conversation clears it, idempotently.
	_, err = svc.GetConversation(conv.ID, bob)
	require.NoError(t, err)
	_, err = svc.GetConversation(conv.ID, bob)
	require.NoError(t, err)

	summaries, err = svc.List(bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summaries[0].UnreadCount)
}

func TestList_ExcludesEmptyConversations(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob", "carol")
	alice := dir.users["alice"]

	_, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)

	withMessages, err := svc.Start(alice, []string{"carol"})
	require.NoError(t, err)
	require.NoError(t, svc.PostMessage(withMessages.ID, alice.ID, "hi"))

	summaries, err := svc.List(alice)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, withMessages.ID, summaries[0].ID)
}

func TestGetConversation_Access(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob", "carol")
	alice := dir.users["alice"]

	conv, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)

	_, err = svc.GetConversation(9999, alice)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.GetConversation(conv.ID, dir.users["carol"])
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestRename(t *testing.T) {
	svc, store, dir := newConversationFixture("alice", "bob", "carol", "dave")
	alice := dir.users["alice"]

	direct, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)
	group, err := svc.Start(alice, []string{"carol", "dave"})
	require.NoError(t, err)

	// Direct conversations silently keep their name.
	require.NoError(t, svc.Rename(direct.ID, alice, "new name"))
	assert.Empty(t, store.convs[direct.ID].Name)

	// Blank names are ignored.
	require.NoError(t, svc.Rename(group.ID, alice, "   "))
	assert.Empty(t, store.convs[group.ID].Name)

	require.NoError(t, svc.Rename(group.ID, alice, " weekend crew "))
	assert.Equal(t, "weekend crew", store.convs[group.ID].Name)

	err = svc.Rename(group.ID, dir.users["bob"], "hijacked")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSetNickname(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob", "carol")
	alice, bob := dir.users["alice"], dir.users["bob"]

	conv, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)
	require.NoError(t, svc.PostMessage(conv.ID, bob.ID, "hey"))

	// Only members can be nicknamed.
	err = svc.SetNickname(conv.ID, alice, dir.users["carol"].ID, "stranger")
	assert.ErrorIs(t, err, ErrNotAMember)

	require.NoError(t, svc.SetNickname(conv.ID, alice, bob.ID, "  Bobby  "))

	detail, err := svc.GetConversation(conv.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bobby"}, detail.Others)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "Bobby", detail.Messages[0].SenderName)

	// Clearing the nickname falls back to the username.
	require.NoError(t, svc.SetNickname(conv.ID, alice, bob.ID, ""))
	detail, err = svc.GetConversation(conv.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, detail.Others)
}

func TestAddParticipant(t *testing.T) {
	svc, _, dir := newConversationFixture("alice", "bob", "carol")
	alice := dir.users["alice"]

	conv, err := svc.Start(alice, []string{"bob"})
	require.NoError(t, err)

	err = svc.AddParticipant(9999, alice, "carol")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	err = svc.AddParticipant(conv.ID, alice, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.AddParticipant(conv.ID, alice, "bob")
	assert.ErrorIs(t, err, ErrAlreadyMember)

	require.NoError(t, svc.AddParticipant(conv.ID, alice, "carol"))

	member, err := svc.IsParticipant(conv.ID, dir.users["carol"].ID)
	require.NoError(t, err)
	assert.True(t, member)
}
