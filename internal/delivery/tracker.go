package delivery

import (
	"context"
	"fmt"

	"messaging-service/internal/repositories"
)

// Tracker creates and queries per-recipient delivery state. Creation is
// idempotent per (message, recipient), so a caller may retry a partially
// failed fanout without double-inserting rows that already made it.
type Tracker struct {
	repo repositories.DeliveryRepository
}

// NewTracker constructs a Tracker.
func NewTracker(repo repositories.DeliveryRepository) *Tracker {
	return &Tracker{repo: repo}
}

// Record creates one unread delivery status per recipient. The first failed
// insert aborts and is returned; rows created before the failure stay put and
// are skipped on retry.
func (t *Tracker) Record(ctx context.Context, messageID int64, recipientIDs []int64) error {
	for _, recipientID := range recipientIDs {
		if err := t.repo.CreateIfAbsent(ctx, messageID, recipientID); err != nil {
			return fmt.Errorf("record delivery for recipient %d: %w", recipientID, err)
		}
	}
	return nil
}

// MarkRead marks one delivery status read. Authorization is the boundary
// layer's problem, not ours.
func (t *Tracker) MarkRead(ctx context.Context, statusID int64) error {
	return t.repo.MarkRead(ctx, statusID)
}

// UnreadCount returns the number of unread messages for the user.
func (t *Tracker) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return t.repo.UnreadCount(ctx, userID)
}
