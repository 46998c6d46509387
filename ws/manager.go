package ws

import (
	"context"
	"sync"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/services/dto"

	"gorm.io/gorm"
)

// ChatRooms is the part of the chat service the socket layer needs.
type ChatRooms interface {
	CanAccess(ctx context.Context, db *gorm.DB, userID, chatID string) bool
	SendMessage(ctx context.Context, db *gorm.DB, userID, chatID, content string) (*dto.MessageResponse, error)
}

// Envelope is every frame the server writes.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type WebSocketManager struct {
	clients map[*Client]struct{}
	users   map[string]map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	db    *gorm.DB
	chats ChatRooms
}

func NewWebSocketManager(db *gorm.DB) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]struct{}),
		users:      make(map[string]map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		db:         db,
	}
}

// UseChatService must be called before Run. The chat service itself
// broadcasts through the manager, so it is attached after construction.
func (manager *WebSocketManager) UseChatService(chats ChatRooms) {
	manager.chats = chats
}

// Run owns registration until ctx is cancelled.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = struct{}{}
			addMember(manager.users, client.UserID, client)
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("WebSocket client registered", "user_id", client.UserID, "total", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case <-ctx.Done():
			manager.mu.Lock()
			for client := range manager.clients {
				close(client.Send)
			}
			manager.clients = make(map[*Client]struct{})
			manager.users = make(map[string]map[*Client]struct{})
			manager.rooms = make(map[string]map[*Client]struct{})
			manager.mu.Unlock()
			return
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client]; !ok {
		return
	}
	delete(manager.clients, client)
	removeMember(manager.users, client.UserID, client)
	for room := range client.rooms {
		removeMember(manager.rooms, room, client)
	}
	close(client.Send)
	logger.Debug("WebSocket client unregistered", "user_id", client.UserID, "total", len(manager.clients))
}

// BroadcastToRoom sends to everyone who joined room.
func (manager *WebSocketManager) BroadcastToRoom(room, event string, payload interface{}) {
	manager.broadcastToRoom(room, event, payload, nil)
}

func (manager *WebSocketManager) broadcastToRoom(room, event string, payload interface{}, except *Client) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.rooms[room] {
		if client == except {
			continue
		}
		manager.deliver(client, Envelope{Event: event, Data: payload})
	}
}

// SendToUser sends to every open connection of userID.
func (manager *WebSocketManager) SendToUser(userID, event string, payload interface{}) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.users[userID] {
		manager.deliver(client, Envelope{Event: event, Data: payload})
	}
}

// deliver must be called with mu held.
func (manager *WebSocketManager) deliver(client *Client, msg Envelope) {
	select {
	case client.Send <- msg:
	default:
		logger.Warn("WebSocket send buffer full, dropping client", "user_id", client.UserID)
		go manager.drop(client)
	}
}

func (manager *WebSocketManager) drop(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

func (manager *WebSocketManager) join(client *Client, room string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if _, ok := manager.clients[client]; !ok {
		return
	}
	addMember(manager.rooms, room, client)
	client.rooms[room] = struct{}{}
}

func (manager *WebSocketManager) leave(client *Client, room string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	removeMember(manager.rooms, room, client)
	delete(client.rooms, room)
}

func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

func (manager *WebSocketManager) IsUserConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.users[userID]) > 0
}

func (manager *WebSocketManager) RoomSize(room string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.rooms[room])
}

func addMember(index map[string]map[*Client]struct{}, key string, client *Client) {
	set, ok := index[key]
	if !ok {
		set = make(map[*Client]struct{})
		index[key] = set
	}
	set[client] = struct{}{}
}

func removeMember(index map[string]map[*Client]struct{}, key string, client *Client) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(index, key)
	}
}
