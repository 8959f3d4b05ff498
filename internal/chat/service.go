package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/lo"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/pubsub"
	"messaging-service/internal/repositories"
)

// DeliveryTracker is the slice of the delivery package the router needs.
type DeliveryTracker interface {
	Record(ctx context.Context, messageID int64, recipientIDs []int64) error
	MarkRead(ctx context.Context, statusID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// NotificationFanout is the slice of the notify package the router needs.
type NotificationFanout interface {
	Notify(ctx context.Context, msg models.Message, recipients []models.User, kind models.NotificationKind) error
}

// Service routes messages to their recipient set and orchestrates the
// per-recipient fanout: delivery rows, notifications, and best-effort pushes.
type Service struct {
	users    repositories.UserRepository
	groups   repositories.GroupRepository
	messages repositories.MessageRepository
	tracker  DeliveryTracker
	fanout   NotificationFanout
	channel  pubsub.Channel
}

// NewService constructs a Service.
func NewService(
	users repositories.UserRepository,
	groups repositories.GroupRepository,
	messages repositories.MessageRepository,
	tracker DeliveryTracker,
	fanout NotificationFanout,
	channel pubsub.Channel,
) *Service {
	return &Service{
		users:    users,
		groups:   groups,
		messages: messages,
		tracker:  tracker,
		fanout:   fanout,
		channel:  channel,
	}
}

type routed struct {
	msg        models.Message
	sender     models.User
	recipients []models.User
}

// Route validates the request, persists the message, and returns it with the
// resolved recipient set. The single message insert is its only side effect;
// delivery and notification fanout belong to Send.
func (s *Service) Route(ctx context.Context, senderID int64, content string, target Target) (models.Message, []models.User, error) {
	res, err := s.route(ctx, senderID, content, target)
	if err != nil {
		return models.Message{}, nil, err
	}
	return res.msg, res.recipients, nil
}

func (s *Service) route(ctx context.Context, senderID int64, content string, target Target) (routed, error) {
	if err := target.Validate(); err != nil {
		return routed{}, err
	}

	sender, err := s.users.GetUser(ctx, senderID)
	if err != nil {
		return routed{}, fmt.Errorf("resolve sender: %w", err)
	}

	if target.IsDirect() {
		recipient, err := s.users.GetUser(ctx, *target.ReceiverUserID)
		if err != nil {
			return routed{}, fmt.Errorf("resolve recipient: %w", err)
		}

		msg, err := s.messages.CreateDirectMessage(ctx, sender.ID, recipient.ID, content)
		if err != nil {
			return routed{}, fmt.Errorf("store message: %w", err)
		}
		return routed{msg: msg, sender: sender, recipients: []models.User{recipient}}, nil
	}

	group, err := s.groups.GetGroup(ctx, *target.ReceiverGroupID)
	if err != nil {
		return routed{}, fmt.Errorf("resolve group: %w", err)
	}

	member, err := s.groups.IsMember(ctx, group.ID, sender.ID)
	if err != nil {
		return routed{}, fmt.Errorf("membership check: %w", err)
	}
	if !member {
		return routed{}, ErrNotGroupMember
	}

	// Membership snapshot is taken once here; later membership changes do not
	// affect this message's recipient set.
	members, err := s.groups.Members(ctx, group.ID)
	if err != nil {
		return routed{}, fmt.Errorf("resolve members: %w", err)
	}
	recipients := lo.Filter(members, func(u models.User, _ int) bool { return u.ID != sender.ID })

	msg, err := s.messages.CreateGroupMessage(ctx, sender.ID, group.ID, content)
	if err != nil {
		return routed{}, fmt.Errorf("store message: %w", err)
	}
	return routed{msg: msg, sender: sender, recipients: recipients}, nil
}

// Send is the routeAndDeliver operation: route the message, then record one
// delivery status and one notification per recipient, then push the message
// to every affected private channel. A persistence failure in the fanout
// fails the whole send; the idempotent fanout inserts make a retry safe.
// Push failures never fail the send.
func (s *Service) Send(ctx context.Context, senderID int64, content string, target Target) (models.Message, error) {
	res, err := s.route(ctx, senderID, content, target)
	if err != nil {
		return models.Message{}, err
	}

	kind := models.KindDirectMessage
	if res.msg.ReceiverGroupID != nil {
		kind = models.KindGroupMessage
	}

	recipientIDs := lo.Map(res.recipients, func(u models.User, _ int) int64 { return u.ID })
	if err := s.tracker.Record(ctx, res.msg.ID, recipientIDs); err != nil {
		return models.Message{}, err
	}

	if err := s.fanout.Notify(ctx, res.msg, res.recipients, kind); err != nil {
		return models.Message{}, err
	}

	observability.IncMessageSent(string(kind))

	event := models.NewMessageEvent(res.msg)
	s.publish(pubsub.UserDestination(res.sender.Username), event)
	for _, recipient := range res.recipients {
		s.publish(pubsub.UserDestination(recipient.Username), event)
	}

	return res.msg, nil
}

func (s *Service) publish(destination string, payload any) {
	if err := s.channel.Publish(destination, payload); err != nil {
		log.Printf("message push failed destination=%s: %v", destination, err)
	}
}

// Conversation returns the direct messages between two users in insertion
// order. Both users must exist.
func (s *Service) Conversation(ctx context.Context, userAID, userBID int64) ([]models.Message, error) {
	if _, err := s.users.GetUser(ctx, userAID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userBID); err != nil {
		return nil, err
	}
	return s.messages.GetConversation(ctx, userAID, userBID)
}

// GroupMessages returns a group's messages in insertion order. The caller
// must be a member of the group.
func (s *Service) GroupMessages(ctx context.Context, groupID, userID int64) ([]models.Message, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("membership check: %w", err)
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	return s.messages.ListGroupMessages(ctx, groupID)
}

// MarkMessageRead marks a delivery status row read.
func (s *Service) MarkMessageRead(ctx context.Context, statusID int64) error {
	return s.tracker.MarkRead(ctx, statusID)
}

// UnreadMessageCount returns the user's unread delivery count.
func (s *Service) UnreadMessageCount(ctx context.Context, userID int64) (int64, error) {
	return s.tracker.UnreadCount(ctx, userID)
}
