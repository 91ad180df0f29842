package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role_id TEXT NOT NULL,
  department_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE conversations (
  id TEXT PRIMARY KEY,
  participant_key TEXT NOT NULL,
  last_message_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX idx_conversations_participant_key ON conversations (participant_key);`,
		`CREATE TABLE conversation_participants (
  conversation_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  PRIMARY KEY (conversation_id, user_id)
);`,
		`CREATE TABLE messages (
  id TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  body TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type dbUserLookup struct {
	db *gorm.DB
}

func (l dbUserLookup) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var row models.User
	if err := l.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

type chatFixture struct {
	db    *gorm.DB
	svc   Service
	alice models.User
	bob   models.User
	carol models.User
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := setupChatTestDB(t)

	mkUser := func(handle string) models.User {
		u := models.User{
			ID:           uuid.New(),
			Username:     handle,
			Email:        handle + "@distributech.io",
			PasswordHash: "x",
			RoleID:       uuid.New(),
			DepartmentID: uuid.New(),
			IsActive:     true,
		}
		require.NoError(t, db.Create(&u).Error)
		return u
	}

	svc, err := NewService(NewRepository(db), dbUserLookup{db: db}, gormTxRunner{db: db})
	require.NoError(t, err)

	return &chatFixture{
		db:    db,
		svc:   svc,
		alice: mkUser("alice.ops"),
		bob:   mkUser("bob.warehouse"),
		carol: mkUser("carol.finance"),
	}
}

func TestFindOrCreateIsIdempotentForSameSet(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID})
	require.NoError(t, err)
	require.Len(t, first.Participants, 2)

	// same pair from the other side, with the requester duplicated in the list
	second, err := f.svc.FindOrCreate(ctx, f.bob.ID, []uuid.UUID{f.alice.ID, f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// a different set gets its own conversation
	third, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID, f.carol.ID})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Len(t, third.Participants, 3)

	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFindOrCreateRecoversFromDuplicateKey(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	// simulate a concurrent winner by inserting the key first
	key := participantKey(normalizeParticipants(f.alice.ID, []uuid.UUID{f.bob.ID}))
	winner := models.Conversation{
		ID:             uuid.New(),
		ParticipantKey: key,
		Participants: []models.ConversationParticipant{
			{ConversationID: uuid.Nil, UserID: f.alice.ID},
			{ConversationID: uuid.Nil, UserID: f.bob.ID},
		},
	}
	for i := range winner.Participants {
		winner.Participants[i].ConversationID = winner.ID
	}
	require.NoError(t, f.db.Create(&winner).Error)

	row, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, row.ID)
}

func TestFindByUsernameRejectsSelfAndUnknown(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.FindByUsername(ctx, f.alice.ID, "alice.ops")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = f.svc.FindByUsername(ctx, f.alice.ID, "nobody.here")
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	row, err := f.svc.FindByUsername(ctx, f.alice.ID, "bob.warehouse")
	require.NoError(t, err)
	assert.Len(t, row.Participants, 2)
}

func TestPostMessageTouchesLastMessageAt(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID})
	require.NoError(t, err)
	assert.Nil(t, conv.LastMessageAt)

	msg, err := f.svc.PostMessage(ctx, f.alice.ID, conv.ID, "  shipment left dock 3  ")
	require.NoError(t, err)
	assert.Equal(t, "shipment left dock 3", msg.Body)
	assert.False(t, msg.IsRead)

	reloaded, err := f.svc.GetConversation(ctx, f.alice.ID, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastMessageAt)

	// non-participants cannot post or read
	_, err = f.svc.PostMessage(ctx, f.carol.ID, conv.ID, "let me in")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	_, err = f.svc.ListMessages(ctx, f.carol.ID, conv.ID)
	require.Error(t, err)
}

func TestMarkReadCountsOnlyInboundUnread(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	conv, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID})
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, f.alice.ID, conv.ID, "one")
	require.NoError(t, err)
	_, err = f.svc.PostMessage(ctx, f.alice.ID, conv.ID, "two")
	require.NoError(t, err)
	_, err = f.svc.PostMessage(ctx, f.bob.ID, conv.ID, "reply")
	require.NoError(t, err)

	count, err := f.svc.MarkRead(ctx, f.bob.ID, conv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "only messages sent by others are marked")

	count, err = f.svc.MarkRead(ctx, f.bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "second call is a no-op")

	msgs, err := f.svc.ListMessages(ctx, f.alice.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	var unread int
	for _, m := range msgs {
		if !m.IsRead {
			unread++
		}
	}
	assert.Equal(t, 1, unread, "bob's reply stays unread until alice marks it")
}

func TestListConversationsIsParticipantScoped(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	ab, err := f.svc.FindOrCreate(ctx, f.alice.ID, []uuid.UUID{f.bob.ID})
	require.NoError(t, err)
	_, err = f.svc.FindOrCreate(ctx, f.bob.ID, []uuid.UUID{f.carol.ID})
	require.NoError(t, err)

	mine, err := f.svc.ListConversations(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ab.ID, mine[0].ID)

	all, err := f.svc.ListConversations(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
