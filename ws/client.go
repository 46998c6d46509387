package ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"skillswap_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type roomPayload struct {
	ChatID string `json:"chatId"`
}

type sendMessagePayload struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

type typingPayload struct {
	ChatID   string `json:"chatId"`
	IsTyping bool   `json:"isTyping"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan Envelope
	Ctx    context.Context

	Manager *WebSocketManager
	// guarded by Manager.mu
	rooms map[string]struct{}
}

func newClient(ctx context.Context, manager *WebSocketManager, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan Envelope, sendBufferSize),
		Ctx:     logger.WithAttrs(logger.WithUserID(ctx, userID), "remote_addr", conn.RemoteAddr().String()),
		Manager: manager,
		rooms:   make(map[string]struct{}),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.drop(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg IncomingWSMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWithError(c.Ctx, "WebSocket read error", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.CtxWithError(c.Ctx, "WebSocket write error", err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "join-room":
		var p roomPayload
		if !c.decode(msg, &p) {
			return
		}
		if c.Manager.chats == nil || !c.Manager.chats.CanAccess(c.Ctx, c.Manager.db, c.UserID, p.ChatID) {
			c.reply("error", map[string]string{"action": msg.Action, "message": "Chat not found"})
			return
		}
		c.Manager.join(c, p.ChatID)
		c.reply("joined-room", p)

	case "leave-room":
		var p roomPayload
		if !c.decode(msg, &p) {
			return
		}
		c.Manager.leave(c, p.ChatID)
		c.reply("left-room", p)

	case "send-message":
		var p sendMessagePayload
		if !c.decode(msg, &p) {
			return
		}
		if c.Manager.chats == nil {
			return
		}
		// The chat service broadcasts receive-message to the room after persisting.
		if _, err := c.Manager.chats.SendMessage(c.Ctx, c.Manager.db, c.UserID, p.ChatID, p.Content); err != nil {
			logger.CtxWarn(c.Ctx, "WebSocket send-message failed", "chat_id", p.ChatID, "error", err.Error())
			c.reply("error", map[string]string{"action": msg.Action, "message": err.Error()})
		}

	case "typing":
		var p typingPayload
		if !c.decode(msg, &p) {
			return
		}
		if !c.inRoom(p.ChatID) {
			return
		}
		c.Manager.broadcastToRoom(p.ChatID, "user-typing", map[string]interface{}{
			"chatId":   p.ChatID,
			"userId":   c.UserID,
			"isTyping": p.IsTyping,
		}, c)

	default:
		logger.CtxDebug(c.Ctx, "Unhandled WebSocket action", "action", msg.Action)
		c.reply("error", map[string]string{"action": msg.Action, "message": "Unknown action"})
	}
}

func (c *Client) decode(msg IncomingWSMessage, v interface{}) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.reply("error", map[string]string{"action": msg.Action, "message": "Invalid payload"})
		return false
	}
	if p, ok := v.(*roomPayload); ok && strings.TrimSpace(p.ChatID) == "" {
		c.reply("error", map[string]string{"action": msg.Action, "message": "chatId is required"})
		return false
	}
	return true
}

func (c *Client) inRoom(room string) bool {
	c.Manager.mu.RLock()
	defer c.Manager.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

func (c *Client) reply(event string, payload interface{}) {
	c.Manager.mu.RLock()
	defer c.Manager.mu.RUnlock()
	if _, ok := c.Manager.clients[c]; !ok {
		return
	}
	c.Manager.deliver(c, Envelope{Event: event, Data: payload})
}
