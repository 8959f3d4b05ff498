package ws

import (
	"errors"
	"testing"

	"messaging-service/internal/models"
	"messaging-service/internal/pubsub"
)

func TestHubAddAndRemove(t *testing.T) {
	hub := NewHub()

	hub.Add("alice", nil, ConnInfo{ConnID: "c1"})
	if hub.ConnCount("alice") != 1 {
		t.Fatalf("expected one connection for alice")
	}

	hub.Remove("alice", nil)
	if hub.ConnCount("alice") != 0 {
		t.Fatalf("expected connection to be removed")
	}
	if len(hub.userConns) != 0 {
		t.Fatalf("expected empty user map after last removal")
	}
}

func TestHubRemoveUnknownConn(t *testing.T) {
	hub := NewHub()

	// must not panic or create state
	hub.Remove("ghost", nil)
	if len(hub.userConns) != 0 {
		t.Fatalf("expected hub to stay empty")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	hub := NewHub()

	err := hub.Publish(pubsub.UserDestination("bob"), models.NewErrorEvent("x"))
	if !errors.Is(err, ErrNoSubscribers) {
		t.Fatalf("expected ErrNoSubscribers, got %v", err)
	}
}

func TestPublishPresenceTopicWithoutConnections(t *testing.T) {
	hub := NewHub()

	if err := hub.Publish(pubsub.PresenceTopic, models.NewUserStatusEvent("alice", true)); err != nil {
		t.Fatalf("presence broadcast with no connections should succeed: %v", err)
	}
}

func TestPublishUnknownDestination(t *testing.T) {
	hub := NewHub()

	if err := hub.Publish("queue:whatever", "payload"); err == nil {
		t.Fatalf("expected error for unknown destination scheme")
	}
}
