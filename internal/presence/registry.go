package presence

import "sync"

// Registry is the in-memory source of truth for who is online. It keeps a
// bidirectional mapping between connection ids and usernames: a session id
// belongs to at most one username, a username may own any number of
// concurrent sessions. Both maps change under one mutex so no caller can
// observe them out of sync.
//
// A Registry is constructed once at process start and passed by reference;
// there is no package-level state.
type Registry struct {
	mu             sync.RWMutex
	sessionToUser  map[string]string
	userToSessions map[string]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessionToUser:  make(map[string]string),
		userToSessions: make(map[string]map[string]struct{}),
	}
}

// AddSession registers a connection for a user. Registering the same session
// id twice is a no-op for the same user; for a different user the last write
// wins, which is a caller bug rather than a state the registry resolves.
// It returns true when this is the user's first active session.
func (r *Registry) AddSession(sessionID, username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessionToUser[sessionID]; ok {
		if prev == username {
			return false
		}
		r.removeLocked(sessionID)
	}

	r.sessionToUser[sessionID] = username
	sessions, ok := r.userToSessions[username]
	if !ok {
		sessions = make(map[string]struct{})
		r.userToSessions[username] = sessions
	}
	first := len(sessions) == 0
	sessions[sessionID] = struct{}{}
	return first
}

// RemoveSession unregisters a connection and returns the username it belonged
// to plus whether that user is now fully offline.
func (r *Registry) RemoveSession(sessionID string) (username string, offline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(sessionID)
}

func (r *Registry) removeLocked(sessionID string) (string, bool) {
	username, ok := r.sessionToUser[sessionID]
	if !ok {
		return "", false
	}
	delete(r.sessionToUser, sessionID)

	sessions := r.userToSessions[username]
	delete(sessions, sessionID)
	if len(sessions) == 0 {
		delete(r.userToSessions, username)
		return username, true
	}
	return username, false
}

// IsOnline reports whether the user has at least one active session.
func (r *Registry) IsOnline(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userToSessions[username]) > 0
}

// OnlineUsers returns a snapshot of every username with an active session.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.userToSessions))
	for username := range r.userToSessions {
		users = append(users, username)
	}
	return users
}

// SessionCount returns the number of active sessions for the user.
func (r *Registry) SessionCount(username string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userToSessions[username])
}

// OnlineCount returns the number of distinct online users.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userToSessions)
}
