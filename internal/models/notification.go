package models

import "time"

// NotificationKind distinguishes what produced a notification.
type NotificationKind string

const (
	KindDirectMessage NotificationKind = "direct-message"
	KindGroupMessage  NotificationKind = "group-message"
)

// Notification is a per-recipient alert, created alongside a DeliveryStatus
// but with its own lifecycle: it can be read and deleted independently.
type Notification struct {
	ID          int64            `db:"id" json:"id"`
	MessageID   int64            `db:"message_id" json:"message_id"`
	Kind        NotificationKind `db:"kind" json:"kind"`
	SenderID    int64            `db:"sender_id" json:"sender_id"`
	RecipientID int64            `db:"recipient_id" json:"recipient_id"`
	GroupID     *int64           `db:"group_id" json:"group_id,omitempty"`
	Read        bool             `db:"is_read" json:"is_read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
