package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/pkg/db"
	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

// FindOrCreateRequest carries the peer set for a conversation lookup. The
// requester is always included whether or not they appear in the list.
type FindOrCreateRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,uuid4"`
}

// FindByUsernameRequest resolves a two-party conversation by handle.
type FindByUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// PostMessageRequest is the payload for sending a message.
type PostMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// MarkReadRequest names the conversation whose inbound messages are read.
type MarkReadRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,uuid4"`
}

// UserLookup resolves chat peers by their unique handle.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines direct messaging between users.
type Service interface {
	FindOrCreate(ctx context.Context, requesterID uuid.UUID, participantIDs []uuid.UUID) (*models.Conversation, error)
	FindByUsername(ctx context.Context, requesterID uuid.UUID, username string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	GetConversation(ctx context.Context, requesterID, conversationID uuid.UUID) (*models.Conversation, error)
	PostMessage(ctx context.Context, senderID, conversationID uuid.UUID, body string) (*models.Message, error)
	ListMessages(ctx context.Context, requesterID, conversationID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, readerID, conversationID uuid.UUID) (int64, error)
}

type service struct {
	repo  Repository
	users UserLookup
	tx    TxRunner
}

// NewService wires chat dependencies.
func NewService(repo Repository, users UserLookup, tx TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user lookup required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, users: users, tx: tx}, nil
}

// FindOrCreate returns the conversation for the participant set, creating it
// when absent. The unique participant key index decides races; the loser of a
// concurrent create re-reads the winner's row.
func (s *service) FindOrCreate(ctx context.Context, requesterID uuid.UUID, participantIDs []uuid.UUID) (*models.Conversation, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester required")
	}

	participants := normalizeParticipants(requesterID, participantIDs)
	if len(participants) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation needs at least two participants")
	}
	key := participantKey(participants)

	existing, err := s.repo.FindByParticipantKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find conversation")
	}

	conversation := &models.Conversation{ParticipantKey: key}
	for _, id := range participants {
		conversation.Participants = append(conversation.Participants, models.ConversationParticipant{UserID: id})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateConversation(ctx, conversation)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_conversations_participant_key") {
			return s.reRead(ctx, key)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}

	return s.reRead(ctx, key)
}

func (s *service) reRead(ctx context.Context, key string) (*models.Conversation, error) {
	row, err := s.repo.FindByParticipantKey(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload conversation")
	}
	return row, nil
}

// FindByUsername resolves the peer by handle and runs a two-party
// find-or-create. Conversations with oneself are rejected.
func (s *service) FindByUsername(ctx context.Context, requesterID uuid.UUID, username string) (*models.Conversation, error) {
	handle := strings.TrimSpace(username)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}

	peer, err := s.users.FindByUsername(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if peer.ID == requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot start a conversation with yourself")
	}

	return s.FindOrCreate(ctx, requesterID, []uuid.UUID{peer.ID})
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	return rows, nil
}

func (s *service) GetConversation(ctx context.Context, requesterID, conversationID uuid.UUID) (*models.Conversation, error) {
	if err := s.requireParticipant(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	row, err := s.repo.FindConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find conversation")
	}
	return row, nil
}

// PostMessage stores the message and touches the conversation's
// last_message_at in the same transaction.
func (s *service) PostMessage(ctx context.Context, senderID, conversationID uuid.UUID, body string) (*models.Message, error) {
	text := strings.TrimSpace(body)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body required")
	}
	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           text,
	}
	now := time.Now().UTC()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateMessage(ctx, message); err != nil {
			return err
		}
		return txRepo.TouchLastMessage(ctx, conversationID, now)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "post message")
	}
	return message, nil
}

func (s *service) ListMessages(ctx context.Context, requesterID, conversationID uuid.UUID) ([]models.Message, error) {
	if err := s.requireParticipant(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return rows, nil
}

// MarkRead flags every message the caller did not send as read and returns
// how many rows changed. Calling it again is a no-op.
func (s *service) MarkRead(ctx context.Context, readerID, conversationID uuid.UUID) (int64, error) {
	if err := s.requireParticipant(ctx, conversationID, readerID); err != nil {
		return 0, err
	}
	count, err := s.repo.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}
	return count, nil
}

func (s *service) requireParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check participant")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this conversation")
	}
	return nil
}
