package service

import (
	"Skillmint/internal/api/dto"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyNewestFirstAndUnread(t *testing.T) {
	svc := NewNotifyService(50)

	svc.OnPresence(&dto.PresenceUpdateDTO{UserID: "u1", Online: true}, "Alice")
	svc.OnMessage(msg("m1", "u1", "me", 1), "Alice")

	state := svc.State()
	assert.Len(t, state.Items, 2)
	assert.Equal(t, "New message from Alice", state.Items[0].Text)
	assert.Equal(t, "Alice is online", state.Items[1].Text)
	assert.Equal(t, 2, state.Unread)
}

func TestNotifyFallbackNames(t *testing.T) {
	svc := NewNotifyService(50)

	svc.OnPresence(&dto.PresenceUpdateDTO{UserID: "u7", Online: false}, "")
	svc.OnMessage(msg("m1", "u8", "me", 1), "")

	state := svc.State()
	assert.Equal(t, "New message from User u8", state.Items[0].Text)
	assert.Equal(t, "User u7 is offline", state.Items[1].Text)
}

func TestNotifyFeedIsCapped(t *testing.T) {
	svc := NewNotifyService(5)

	for i := 0; i < 8; i++ {
		svc.OnPresence(&dto.PresenceUpdateDTO{UserID: fmt.Sprintf("u%d", i), Online: true}, "")
	}

	state := svc.State()
	assert.Len(t, state.Items, 5)
	// 最老的被挤出，最新的在最前
	assert.Equal(t, "User u7 is online", state.Items[0].Text)
	assert.Equal(t, "User u3 is online", state.Items[4].Text)
	assert.Equal(t, 8, state.Unread)
}

func TestOpenPanelResetsUnread(t *testing.T) {
	svc := NewNotifyService(50)
	svc.OnPresence(&dto.PresenceUpdateDTO{UserID: "u1", Online: true}, "")

	state := svc.OpenPanel()
	assert.Equal(t, 0, state.Unread)
	assert.Len(t, state.Items, 1)
	assert.Equal(t, 0, svc.State().Unread)
}

func TestConnectedFlag(t *testing.T) {
	svc := NewNotifyService(50)
	assert.False(t, svc.Connected())
	svc.SetConnected(true)
	assert.True(t, svc.Connected())
	assert.True(t, svc.State().Connected)
}
