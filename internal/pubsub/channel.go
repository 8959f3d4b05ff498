package pubsub

// Channel is the narrow publish contract the core depends on. The websocket
// hub is the in-process implementation; nothing in the core cares how a
// destination is actually delivered, and no acknowledgement is expected.
type Channel interface {
	Publish(destination string, payload any) error
}

// PresenceTopic is the shared destination for user online/offline events.
const PresenceTopic = "topic:presence"

// UserDestination addresses a user's private channel. Every active
// connection of that user receives the payload.
func UserDestination(username string) string {
	return "user:" + username
}
