package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	Get(ctx context.Context, notificationID int64) (models.Notification, error)
	ListForUser(ctx context.Context, recipientID int64) ([]models.Notification, error)
	ListUnreadForUser(ctx context.Context, recipientID int64) ([]models.Notification, error)
	ListForGroup(ctx context.Context, groupID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	UnreadCount(ctx context.Context, recipientID int64) (int64, error)
	Delete(ctx context.Context, notificationID int64) error
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

const notificationColumns = `id, message_id, kind, sender_id, recipient_id, group_id, is_read, created_at`

// Create inserts a notification row and returns it with its generated id.
func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	var saved models.Notification
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (message_id, kind, sender_id, recipient_id, group_id)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+notificationColumns,
		n.MessageID, n.Kind, n.SenderID, n.RecipientID, n.GroupID).
		StructScan(&saved)
	return saved, err
}

// Get fetches a single notification.
func (r *NotificationRepo) Get(ctx context.Context, notificationID int64) (models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, notificationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

// ListForUser returns all notifications addressed to the user, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC`, recipientID)
	return list, err
}

// ListUnreadForUser returns the user's unread notifications, newest first.
func (r *NotificationRepo) ListUnreadForUser(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications WHERE recipient_id=$1 AND is_read = FALSE ORDER BY created_at DESC`, recipientID)
	return list, err
}

// ListForGroup returns notifications produced by messages in the group.
func (r *NotificationRepo) ListForGroup(ctx context.Context, groupID int64) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications WHERE group_id=$1 ORDER BY created_at DESC`, groupID)
	return list, err
}

// MarkRead marks one notification read. Read is terminal; there is no way
// back to unread.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id=$1`, notificationID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user and returns how
// many rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id=$1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnreadCount counts unread notifications for the user.
func (r *NotificationRepo) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND is_read = FALSE`, recipientID)
	return count, err
}

// Delete removes a notification. Unlike delivery statuses, notifications can
// be deleted independently of their message.
func (r *NotificationRepo) Delete(ctx context.Context, notificationID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id=$1`, notificationID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
