package notify

import (
	"context"
	"fmt"
	"log"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/pubsub"
	"messaging-service/internal/repositories"
)

// Fanout creates one notification per message recipient and pushes it to the
// recipient's private channel. The push is fire-and-forget: an offline
// recipient simply finds the stored notification later through the pull API.
type Fanout struct {
	repo    repositories.NotificationRepository
	channel pubsub.Channel
}

// NewFanout constructs a Fanout.
func NewFanout(repo repositories.NotificationRepository, channel pubsub.Channel) *Fanout {
	return &Fanout{repo: repo, channel: channel}
}

// Notify persists and pushes one notification per recipient. A failed insert
// aborts and is returned so the caller can report the send as failed; a
// failed publish is logged and counted but never returned.
func (f *Fanout) Notify(ctx context.Context, msg models.Message, recipients []models.User, kind models.NotificationKind) error {
	for _, recipient := range recipients {
		n := models.Notification{
			MessageID:   msg.ID,
			Kind:        kind,
			SenderID:    msg.SenderID,
			RecipientID: recipient.ID,
			GroupID:     msg.ReceiverGroupID,
		}

		saved, err := f.repo.Create(ctx, n)
		if err != nil {
			return fmt.Errorf("create notification for recipient %d: %w", recipient.ID, err)
		}
		observability.IncNotificationCreated(string(kind))

		if err := f.channel.Publish(pubsub.UserDestination(recipient.Username), models.NewNotificationEvent(saved)); err != nil {
			log.Printf("notification push failed recipient=%s notification=%d: %v", recipient.Username, saved.ID, err)
			observability.IncNotificationPushError()
		}
	}
	return nil
}

// MarkRead marks one notification read.
func (f *Fanout) MarkRead(ctx context.Context, notificationID int64) error {
	return f.repo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification for the user, returning the
// number of notifications that changed state.
func (f *Fanout) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return f.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the user's unread notification count.
func (f *Fanout) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return f.repo.UnreadCount(ctx, userID)
}

// Get fetches a single notification.
func (f *Fanout) Get(ctx context.Context, notificationID int64) (models.Notification, error) {
	return f.repo.Get(ctx, notificationID)
}

// ListForUser returns all notifications addressed to the user.
func (f *Fanout) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	return f.repo.ListForUser(ctx, userID)
}

// ListUnreadForUser returns the user's unread notifications.
func (f *Fanout) ListUnreadForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	return f.repo.ListUnreadForUser(ctx, userID)
}

// ListForGroup returns notifications produced in a group.
func (f *Fanout) ListForGroup(ctx context.Context, groupID int64) ([]models.Notification, error) {
	return f.repo.ListForGroup(ctx, groupID)
}

// Delete removes a notification.
func (f *Fanout) Delete(ctx context.Context, notificationID int64) error {
	return f.repo.Delete(ctx, notificationID)
}
