package models

// DeliveryStatus tracks whether one recipient has read one message. One row
// exists per (message, recipient) pair; rows are created together with the
// message fanout and only the read flag ever changes.
type DeliveryStatus struct {
	ID          int64 `db:"id" json:"id"`
	MessageID   int64 `db:"message_id" json:"message_id"`
	RecipientID int64 `db:"recipient_id" json:"recipient_id"`
	Read        bool  `db:"is_read" json:"is_read"`
}
