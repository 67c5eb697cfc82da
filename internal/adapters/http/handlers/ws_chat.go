package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chat2purchase/shopassist/internal/adapters/http/dto"
	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
)

const (
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 10 * time.Second
)

// wsQueueSize bounds frames read ahead of the one being answered
const wsQueueSize = 8

// WebSocketChatHandler serves chat over a websocket. Each text frame is a
// chat request and is answered by exactly one response frame, in order.
// Turns run off the read goroutine so control frames keep the read deadline
// alive while a long turn is in progress.
type WebSocketChatHandler struct {
	upgrader     websocket.Upgrader
	chat         ChatService
	pongWait     time.Duration
	pingInterval time.Duration
}

func NewWebSocketChatHandler(chat ChatService, allowedOrigins []string) *WebSocketChatHandler {
	allowedOriginsMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedOriginsMap[origin] = true
	}

	return &WebSocketChatHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowedOriginsMap[origin]
			},
		},
		chat:         chat,
		pongWait:     wsPongWait,
		pingInterval: wsPingInterval,
	}
}

func (h *WebSocketChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to upgrade websocket connection", "error", err)
		return
	}
	defer conn.Close()

	metrics.WebSocketConnectionsActive.Inc()
	defer metrics.WebSocketConnectionsActive.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// gorilla allows one concurrent writer
	var writeMu sync.Mutex
	write := func(messageType int, data []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteMessage(messageType, data)
	}

	frames := make(chan []byte, wsQueueSize)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, write)
	}()
	go func() {
		defer wg.Done()
		if !h.answerLoop(ctx, frames, write) {
			// unblocks the reader
			cancel()
			conn.Close()
		}
	}()

	h.readLoop(ctx, conn, frames)
	close(frames)
	cancel()
	wg.Wait()
}

// readLoop reads until the peer goes away, queueing text frames in order
func (h *WebSocketChatHandler) readLoop(ctx context.Context, conn *websocket.Conn, frames chan<- []byte) {
	conn.SetReadLimit(maxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongWait))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.WarnContext(ctx, "websocket read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.pongWait))

		if messageType != websocket.TextMessage {
			slog.DebugContext(ctx, "ignoring non-text websocket frame", "type", messageType)
			continue
		}

		select {
		case frames <- data:
		case <-ctx.Done():
			return
		}
	}
}

// answerLoop replies to queued frames one at a time. It reports false when
// the connection can no longer be written.
func (h *WebSocketChatHandler) answerLoop(ctx context.Context, frames <-chan []byte, write func(int, []byte) error) bool {
	for data := range frames {
		reply, err := h.handleFrame(ctx, data)
		if err != nil {
			slog.WarnContext(ctx, "failed to encode websocket reply", "error", err)
			return false
		}
		if err := write(websocket.TextMessage, reply); err != nil {
			slog.WarnContext(ctx, "failed to write websocket reply", "error", err)
			return false
		}
	}
	return true
}

func (h *WebSocketChatHandler) handleFrame(ctx context.Context, data []byte) ([]byte, error) {
	var req dto.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return json.Marshal(dto.NewErrorResponse(dto.ErrorTypeInvalidRequest, "Invalid chat frame", http.StatusBadRequest))
	}
	return json.Marshal(dto.FromChatOutput(runChat(ctx, h.chat, req.ToInput())))
}

func (h *WebSocketChatHandler) pingLoop(ctx context.Context, write func(int, []byte) error) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				slog.DebugContext(ctx, "websocket ping failed", "error", err)
				return
			}
		}
	}
}
