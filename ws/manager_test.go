package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRooms struct {
	manager *WebSocketManager
	members map[string][]string

	mu   sync.Mutex
	sent []string
}

func (f *fakeRooms) CanAccess(_ context.Context, _ *gorm.DB, userID, chatID string) bool {
	for _, m := range f.members[chatID] {
		if m == userID {
			return true
		}
	}
	return false
}

func (f *fakeRooms) SendMessage(_ context.Context, _ *gorm.DB, userID, chatID, content string) (*dto.MessageResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ValidationError(map[string]string{"content": "required"})
	}
	f.mu.Lock()
	f.sent = append(f.sent, content)
	f.mu.Unlock()
	msg := &dto.MessageResponse{ID: "m1", ChatID: chatID, SenderID: userID, Content: content}
	f.manager.BroadcastToRoom(chatID, "receive-message", msg)
	return msg, nil
}

// fakeAuth trusts the ?as= query parameter.
func fakeAuth(c *gin.Context) {
	if as := c.Query("as"); as != "" {
		c.Set(string(contextkeys.UserIDKey), as)
	}
	c.Next()
}

type wsFixture struct {
	manager *WebSocketManager
	server  *httptest.Server
}

func newWSFixture(t *testing.T) *wsFixture {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())

	manager := NewWebSocketManager(nil)
	manager.UseChatService(&fakeRooms{
		manager: manager,
		members: map[string][]string{"chat-1": {"alice", "bob"}},
	})
	go manager.Run(ctx)

	router := gin.New()
	NewWebSocketHandler(manager, fakeAuth, nil).RegisterRoutes(&router.RouterGroup)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &wsFixture{manager: manager, server: server}
}

func (f *wsFixture) dial(t *testing.T, user string) *websocket.Conn {
	before := f.manager.GetClientCount()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?as=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return f.manager.GetClientCount() > before }, time.Second, 5*time.Millisecond)
	return conn
}

type received struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

func send(t *testing.T, conn *websocket.Conn, action string, data interface{}) {
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": action, "data": data}))
}

func next(t *testing.T, conn *websocket.Conn) received {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_RoomFlow(t *testing.T) {
	f := newWSFixture(t)
	alice := f.dial(t, "alice")
	bob := f.dial(t, "bob")
	assert.True(t, f.manager.IsUserConnected("alice"))

	send(t, alice, "join-room", map[string]string{"chatId": "chat-1"})
	assert.Equal(t, "joined-room", next(t, alice).Event)
	send(t, bob, "join-room", map[string]string{"chatId": "chat-1"})
	assert.Equal(t, "joined-room", next(t, bob).Event)
	assert.Equal(t, 2, f.manager.RoomSize("chat-1"))

	send(t, alice, "typing", map[string]interface{}{"chatId": "chat-1", "isTyping": true})
	typing := next(t, bob)
	assert.Equal(t, "user-typing", typing.Event)
	assert.Equal(t, "alice", typing.Data["userId"])
	assert.Equal(t, true, typing.Data["isTyping"])

	send(t, alice, "send-message", map[string]string{"chatId": "chat-1", "content": "hola"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		msg := next(t, conn)
		assert.Equal(t, "receive-message", msg.Event)
		assert.Equal(t, "hola", msg.Data["content"])
		assert.Equal(t, "alice", msg.Data["senderId"])
	}

	send(t, alice, "send-message", map[string]string{"chatId": "chat-1", "content": "  "})
	assert.Equal(t, "error", next(t, alice).Event)

	send(t, bob, "leave-room", map[string]string{"chatId": "chat-1"})
	assert.Equal(t, "left-room", next(t, bob).Event)
	assert.Equal(t, 1, f.manager.RoomSize("chat-1"))
}

func TestWebSocket_RejectsOutsidersAndUnknownActions(t *testing.T) {
	f := newWSFixture(t)
	eve := f.dial(t, "eve")

	send(t, eve, "join-room", map[string]string{"chatId": "chat-1"})
	msg := next(t, eve)
	assert.Equal(t, "error", msg.Event)
	assert.Equal(t, "Chat not found", msg.Data["message"])
	assert.Zero(t, f.manager.RoomSize("chat-1"))

	send(t, eve, "join-room", map[string]string{})
	assert.Equal(t, "chatId is required", next(t, eve).Data["message"])

	send(t, eve, "dance", nil)
	assert.Equal(t, "Unknown action", next(t, eve).Data["message"])
}

func TestWebSocket_SendToUserAndDisconnect(t *testing.T) {
	f := newWSFixture(t)
	alice := f.dial(t, "alice")

	f.manager.SendToUser("alice", "notification", map[string]string{"message": "hi"})
	msg := next(t, alice)
	assert.Equal(t, "notification", msg.Event)
	assert.Equal(t, "hi", msg.Data["message"])

	require.NoError(t, alice.Close())
	assert.Eventually(t, func() bool { return !f.manager.IsUserConnected("alice") }, time.Second, 5*time.Millisecond)
}

func TestWebSocket_RequiresUser(t *testing.T) {
	f := newWSFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
