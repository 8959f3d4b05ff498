package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messaging-service/internal/chat"
	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

type messageSender interface {
	Send(ctx context.Context, senderID int64, content string, target chat.Target) (models.Message, error)
}

// Handler owns the websocket endpoint: it upgrades connections, runs the
// connect handshake, and dispatches inbound send frames to the chat service.
type Handler struct {
	hub       *Hub
	lifecycle *Lifecycle
	sender    messageSender
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, lifecycle *Lifecycle, sender messageSender) *Handler {
	return &Handler{hub: hub, lifecycle: lifecycle, sender: sender}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and waits for the connect frame. A claimed
// username that matches no known user gets an error event on this session
// only, never a process error.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messaging-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return
	}

	frameType, event, err := decodeFrame(data)
	if err != nil || frameType != FrameConnect {
		writeError(conn, "first frame must be a connect event")
		conn.Close()
		return
	}

	connect := event.(ConnectFrame)
	user, err := h.lifecycle.Authenticate(ctx, connect.Username)
	if err != nil {
		writeError(conn, "unknown username: "+connect.Username)
		observability.IncWSEvent("ws_reject")
		conn.Close()
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		Username:    user.Username,
		UserID:      user.ID,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	h.hub.Add(user.Username, conn, info)
	h.lifecycle.Connected(info.ConnID, user.Username)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	emitWSEvent(ctx, "ws_connect", info, "")

	// The request context is canceled as soon as this handler returns; the
	// read loop outlives the request, so it keeps the trace values but not
	// the cancelation.
	go h.readLoop(context.WithoutCancel(ctx), conn, user, info)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, user models.User, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.Remove(user.Username, conn)
		h.lifecycle.Disconnected(info.ConnID)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		emitWSEvent(ctx, "ws_disconnect", info, closeReason)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				emitWSEvent(ctx, "ws_error", info, closeReason)
			}
			return
		}
		h.dispatch(ctx, conn, user, data)
	}
}

func (h *Handler) dispatch(ctx context.Context, conn *websocket.Conn, user models.User, data []byte) {
	_, event, err := decodeFrame(data)
	if err != nil {
		h.writeErrorTo(user.Username, conn, err.Error())
		return
	}

	switch ev := event.(type) {
	case ConnectFrame:
		h.writeErrorTo(user.Username, conn, "session already connected")
	case DirectSendFrame:
		if _, err := h.sender.Send(ctx, user.ID, ev.Content, chat.DirectTarget(ev.ReceiverUserID)); err != nil {
			h.writeErrorTo(user.Username, conn, err.Error())
		}
	case GroupSendFrame:
		if _, err := h.sender.Send(ctx, user.ID, ev.Content, chat.GroupTarget(ev.ReceiverGroupID)); err != nil {
			h.writeErrorTo(user.Username, conn, err.Error())
		}
	}
}

// writeErrorTo reports an error on a registered session, serialized with any
// concurrent hub pushes to the same connection.
func (h *Handler) writeErrorTo(username string, conn *websocket.Conn, text string) {
	if err := h.hub.WriteTo(username, conn, models.NewErrorEvent(text)); err != nil {
		log.Printf("websocket error write failed: %v", err)
	}
}

// writeError writes directly on a connection that is not registered yet;
// during the handshake the handler is the only writer.
func writeError(conn *websocket.Conn, text string) {
	payload, err := json.Marshal(models.NewErrorEvent(text))
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket error write failed: %v", err)
	}
}

func emitWSEvent(ctx context.Context, name string, info ConnInfo, reason string) {
	payload := map[string]any{
		"ws": map[string]any{
			"event":       name,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]any{
			"user_id":  info.UserID,
			"username": info.Username,
			"ip":       info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(ctx, "ws_events.sessions", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload:   payload,
	}, headers)
}
