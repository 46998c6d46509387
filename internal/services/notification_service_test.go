package services

import (
	"context"
	"sync"
	"testing"

	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	Target  string
	Event   string
	Payload interface{}
}

// recordingBroadcaster captures websocket pushes.
type recordingBroadcaster struct {
	mu    sync.Mutex
	rooms []sentEvent
	users []sentEvent
}

func (b *recordingBroadcaster) BroadcastToRoom(room, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, sentEvent{Target: room, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) SendToUser(userID, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = append(b.users, sentEvent{Target: userID, Event: event, Payload: payload})
}

// asBroadcaster keeps a nil recorder from becoming a typed-nil Broadcaster.
func asBroadcaster(rec *recordingBroadcaster) Broadcaster {
	if rec == nil {
		return nil
	}
	return rec
}

func (b *recordingBroadcaster) userEvents(userID string) []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentEvent
	for _, e := range b.users {
		if e.Target == userID {
			out = append(out, e)
		}
	}
	return out
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")

	svc := NewNotificationService(repositories.NewNotificationRepository(), nil)
	_, err := svc.Notify(db, alice.ID, models.NotificationMatch, "first", nil)
	require.NoError(t, err)
	_, err = svc.Notify(db, alice.ID, models.NotificationNewMessage, "second", map[string]interface{}{"chatId": "c1"})
	require.NoError(t, err)

	list, err := svc.GetUserNotifications(ctx, db, alice.ID)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.EqualValues(t, 2, list.UnreadCount)

	require.NoError(t, svc.MarkAllAsRead(ctx, db, alice.ID))
	list, err = svc.GetUserNotifications(ctx, db, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, list.UnreadCount)
	for _, n := range list.Notifications {
		assert.True(t, n.IsRead)
	}
}

func TestNotificationService_PushSendsToOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	rec := &recordingBroadcaster{}

	svc := NewNotificationService(repositories.NewNotificationRepository(), rec)
	n, err := svc.Notify(db, alice.ID, models.NotificationMatch, "hello", nil)
	require.NoError(t, err)

	svc.Push(context.Background(), n, nil)

	events := rec.userEvents(alice.ID)
	require.Len(t, events, 1)
	assert.Equal(t, "notification", events[0].Event)
}
