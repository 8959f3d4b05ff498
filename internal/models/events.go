package models

// Event type tags written to websocket clients.
const (
	EventMessage      = "message"
	EventNotification = "notification"
	EventUserStatus   = "user_status"
	EventOnlineUsers  = "online_users"
	EventError        = "error"
)

// UserStatusEvent announces a presence transition on the global presence topic.
type UserStatusEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// OnlineUsersEvent carries the full presence snapshot sent to a freshly
// connected client.
type OnlineUsersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// MessageEvent wraps a persisted message pushed to a private channel.
type MessageEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

// NotificationEvent wraps a notification pushed to a private channel.
type NotificationEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification"`
}

// ErrorEvent is written back on the session that caused the error.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewUserStatusEvent(username string, online bool) UserStatusEvent {
	return UserStatusEvent{Type: EventUserStatus, Username: username, Online: online}
}

func NewOnlineUsersEvent(users []string) OnlineUsersEvent {
	return OnlineUsersEvent{Type: EventOnlineUsers, Users: users}
}

func NewMessageEvent(msg Message) MessageEvent {
	return MessageEvent{Type: EventMessage, Message: &msg}
}

func NewNotificationEvent(n Notification) NotificationEvent {
	return NotificationEvent{Type: EventNotification, Notification: &n}
}

func NewErrorEvent(text string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: text}
}
