package models

import "time"

// Message is a persisted chat message. Exactly one of ReceiverUserID and
// ReceiverGroupID is set; the messages table enforces the same rule with a
// CHECK constraint. Messages are immutable after creation.
type Message struct {
	ID              int64     `db:"id" json:"id"`
	Content         string    `db:"content" json:"content"`
	SenderID        int64     `db:"sender_id" json:"sender_id"`
	ReceiverUserID  *int64    `db:"receiver_user_id" json:"receiver_user_id,omitempty"`
	ReceiverGroupID *int64    `db:"receiver_group_id" json:"receiver_group_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// IsDirect reports whether the message is addressed to a single user.
func (m Message) IsDirect() bool {
	return m.ReceiverUserID != nil
}
