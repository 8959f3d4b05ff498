package ws

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ConnInfo describes one live websocket connection.
type ConnInfo struct {
	ConnID      string
	Username    string
	UserID      int64
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// newConnID returns a random 128-bit hex identifier for a connection. It
// doubles as the presence session id.
func newConnID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
