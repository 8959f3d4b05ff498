package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for persisted messages.
type MessageRepository interface {
	CreateDirectMessage(ctx context.Context, senderID, receiverID int64, content string) (models.Message, error)
	CreateGroupMessage(ctx context.Context, senderID, groupID int64, content string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int64) (models.Message, error)
	GetConversation(ctx context.Context, userAID, userBID int64) ([]models.Message, error)
	ListGroupMessages(ctx context.Context, groupID int64) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, content, sender_id, receiver_user_id, receiver_group_id, created_at`

// CreateDirectMessage stores a message addressed to a single user.
func (r *MessageRepo) CreateDirectMessage(ctx context.Context, senderID, receiverID int64, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (content, sender_id, receiver_user_id) VALUES ($1, $2, $3) RETURNING `+messageColumns, content, senderID, receiverID).
		StructScan(&msg)
	return msg, err
}

// CreateGroupMessage stores a message addressed to a group.
func (r *MessageRepo) CreateGroupMessage(ctx context.Context, senderID, groupID int64, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (content, sender_id, receiver_group_id) VALUES ($1, $2, $3) RETURNING `+messageColumns, content, senderID, groupID).
		StructScan(&msg)
	return msg, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int64) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// GetConversation returns the direct messages exchanged between two users in
// insertion order.
func (r *MessageRepo) GetConversation(ctx context.Context, userAID, userBID int64) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (sender_id=$1 AND receiver_user_id=$2) OR (sender_id=$2 AND receiver_user_id=$1)
        ORDER BY id ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userAID, userBID)
	return msgs, err
}

// ListGroupMessages returns a group's messages in insertion order.
func (r *MessageRepo) ListGroupMessages(ctx context.Context, groupID int64) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE receiver_group_id=$1 ORDER BY id ASC`, groupID)
	return msgs, err
}
