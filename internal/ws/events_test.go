package ws

import (
	"errors"
	"testing"
)

func TestDecodeConnectFrame(t *testing.T) {
	frameType, event, err := decodeFrame([]byte(`{"type":"connect","payload":{"username":"  alice "}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frameType != FrameConnect {
		t.Fatalf("expected connect frame, got %q", frameType)
	}
	connect, ok := event.(ConnectFrame)
	if !ok {
		t.Fatalf("expected ConnectFrame, got %T", event)
	}
	if connect.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", connect.Username)
	}
}

func TestDecodeConnectFrameRequiresUsername(t *testing.T) {
	_, _, err := decodeFrame([]byte(`{"type":"connect","payload":{"username":"  "}}`))
	if err == nil {
		t.Fatalf("expected error for blank username")
	}
}

func TestDecodeDirectSendFrame(t *testing.T) {
	_, event, err := decodeFrame([]byte(`{"type":"direct_send","payload":{"receiver_user_id":2,"content":"hi"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	send, ok := event.(DirectSendFrame)
	if !ok {
		t.Fatalf("expected DirectSendFrame, got %T", event)
	}
	if send.ReceiverUserID != 2 || send.Content != "hi" {
		t.Fatalf("unexpected frame contents: %+v", send)
	}
}

func TestDecodeGroupSendFrame(t *testing.T) {
	_, event, err := decodeFrame([]byte(`{"type":"group_send","payload":{"receiver_group_id":7,"content":"all"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := event.(GroupSendFrame); !ok {
		t.Fatalf("expected GroupSendFrame, got %T", event)
	}
}

func TestDecodeUnknownFrame(t *testing.T) {
	_, _, err := decodeFrame([]byte(`{"type":"dance","payload":{}}`))
	if !errors.Is(err, errUnknownFrame) {
		t.Fatalf("expected errUnknownFrame, got %v", err)
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	_, _, err := decodeFrame([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected error for malformed frame")
	}
}
