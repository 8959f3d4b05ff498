package ws

import (
	"context"
	"log"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/presence"
	"messaging-service/internal/pubsub"
	"messaging-service/internal/repositories"
)

// Lifecycle reacts to connection events: it validates claimed usernames,
// keeps the presence registry in step with the connections, and emits
// presence broadcasts on real online/offline transitions only.
type Lifecycle struct {
	registry *presence.Registry
	users    repositories.UserRepository
	channel  pubsub.Channel
}

// NewLifecycle constructs a Lifecycle.
func NewLifecycle(registry *presence.Registry, users repositories.UserRepository, channel pubsub.Channel) *Lifecycle {
	return &Lifecycle{registry: registry, users: users, channel: channel}
}

// Authenticate resolves a claimed username against the user store. An
// unknown username rejects the connection; the caller reports the error on
// that session only.
func (l *Lifecycle) Authenticate(ctx context.Context, username string) (models.User, error) {
	return l.users.GetUserByUsername(ctx, username)
}

// Connected registers the session, sends the presence snapshot to the new
// connection's user, and broadcasts "online" globally only when this is the
// user's first active session. Multi-device users trigger no redundant
// broadcast.
func (l *Lifecycle) Connected(sessionID, username string) {
	first := l.registry.AddSession(sessionID, username)

	snapshot := models.NewOnlineUsersEvent(l.registry.OnlineUsers())
	if err := l.channel.Publish(pubsub.UserDestination(username), snapshot); err != nil {
		log.Printf("presence snapshot push failed user=%s: %v", username, err)
	}

	if first {
		l.broadcastStatus(username, true)
	}
	log.Printf("session connected user=%s session=%s online_users=%d", username, sessionID, l.registry.OnlineCount())
}

// Disconnected removes the session and broadcasts "offline" only when the
// user's last session is gone.
func (l *Lifecycle) Disconnected(sessionID string) {
	username, offline := l.registry.RemoveSession(sessionID)
	if username == "" {
		return
	}
	if offline {
		l.broadcastStatus(username, false)
		log.Printf("user disconnected user=%s session=%s", username, sessionID)
		return
	}
	log.Printf("session closed user=%s session=%s, user still online", username, sessionID)
}

func (l *Lifecycle) broadcastStatus(username string, online bool) {
	state := "offline"
	if online {
		state = "online"
	}
	observability.IncPresenceTransition(state)
	if err := l.channel.Publish(pubsub.PresenceTopic, models.NewUserStatusEvent(username, online)); err != nil {
		log.Printf("presence broadcast failed user=%s state=%s: %v", username, state, err)
	}
}
