package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrDeliveryStatusNotFound = errors.New("delivery status not found")

// DeliveryRepository persists per-recipient read state for messages.
type DeliveryRepository interface {
	CreateIfAbsent(ctx context.Context, messageID, recipientID int64) error
	MarkRead(ctx context.Context, statusID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// DeliveryRepo is a sqlx implementation of DeliveryRepository.
type DeliveryRepo struct {
	db *sqlx.DB
}

// NewDeliveryRepo constructs a DeliveryRepo.
func NewDeliveryRepo(db *sqlx.DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// CreateIfAbsent inserts the (message, recipient) row unless it already
// exists, so fanout retries never double-insert.
func (r *DeliveryRepo) CreateIfAbsent(ctx context.Context, messageID, recipientID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO message_status (message_id, recipient_id) VALUES ($1, $2)
        ON CONFLICT (message_id, recipient_id) DO NOTHING`, messageID, recipientID)
	return err
}

// MarkRead flips the read flag for one delivery status row.
func (r *DeliveryRepo) MarkRead(ctx context.Context, statusID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE message_status SET is_read = TRUE WHERE id=$1`, statusID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrDeliveryStatusNotFound
	}
	return nil
}

// UnreadCount counts unread delivery rows for the user.
func (r *DeliveryRepo) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM message_status WHERE recipient_id=$1 AND is_read = FALSE`, userID)
	return count, err
}
