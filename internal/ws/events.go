package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Inbound frames are decoded exactly once here; everything past this point
// works with typed values, never raw maps.
const (
	FrameConnect    = "connect"
	FrameDirectSend = "direct_send"
	FrameGroupSend  = "group_send"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ConnectFrame opens a session for a claimed username.
type ConnectFrame struct {
	Username string `json:"username"`
}

// DirectSendFrame sends a message to a single user.
type DirectSendFrame struct {
	ReceiverUserID int64  `json:"receiver_user_id"`
	Content        string `json:"content"`
}

// GroupSendFrame sends a message to a group.
type GroupSendFrame struct {
	ReceiverGroupID int64  `json:"receiver_group_id"`
	Content         string `json:"content"`
}

var errUnknownFrame = errors.New("unknown frame type")

// decodeFrame parses a raw client frame into one of the tagged event types.
func decodeFrame(data []byte) (string, any, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch f.Type {
	case FrameConnect:
		var ev ConnectFrame
		if err := json.Unmarshal(f.Payload, &ev); err != nil {
			return f.Type, nil, fmt.Errorf("malformed connect payload: %w", err)
		}
		ev.Username = strings.TrimSpace(ev.Username)
		if ev.Username == "" {
			return f.Type, nil, errors.New("username is required")
		}
		return f.Type, ev, nil
	case FrameDirectSend:
		var ev DirectSendFrame
		if err := json.Unmarshal(f.Payload, &ev); err != nil {
			return f.Type, nil, fmt.Errorf("malformed direct_send payload: %w", err)
		}
		return f.Type, ev, nil
	case FrameGroupSend:
		var ev GroupSendFrame
		if err := json.Unmarshal(f.Payload, &ev); err != nil {
			return f.Type, nil, fmt.Errorf("malformed group_send payload: %w", err)
		}
		return f.Type, ev, nil
	default:
		return f.Type, nil, errUnknownFrame
	}
}
