package rest

import (
	"Skillmint/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ServerConfig{BaseURL: srv.URL, Timeout: 5}, staticToken("tok-123"))
}

func TestBearerTokenInjected(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":200,"message":"success","data":[]}`))
	})

	_, err := client.Threads(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestThreadsUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages/threads", r.URL.Path)
		w.Write([]byte(`{"code":200,"message":"success","data":[
			{"peer":{"id":"u1","name":"Alice"},"unreadCount":2}
		]}`))
	})

	threads, err := client.Threads(context.Background())
	assert.NoError(t, err)
	assert.Len(t, threads, 1)
	assert.Equal(t, "Alice", threads[0].Peer.Name)
	assert.Equal(t, 2, threads[0].UnreadCount)
}

func TestThreadsToleratesBarePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"peer":{"id":"u1","name":"Alice"}}]`))
	})

	threads, err := client.Threads(context.Background())
	assert.NoError(t, err)
	assert.Len(t, threads, 1)
}

func TestConversationPagedAndBare(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages/u1", r.URL.Path)
		if r.URL.Query().Get("cursor") == "" {
			assert.Equal(t, "30", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"messages":[{"id":"m1","senderId":"u1","content":"hi","createdAt":"2026-03-10T12:00:00Z"}],"nextCursor":"c1"}`))
			return
		}
		// 旧版后端直接返回数组
		w.Write([]byte(`[{"id":"m0","senderId":"u1","content":"old","createdAt":1767873600000}]`))
	})

	msgs, cursor, err := client.Conversation(context.Background(), "u1", "", 30)
	assert.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "c1", cursor)
	assert.Equal(t, 2026, msgs[0].CreatedAt.Year())

	older, cursor, err := client.Conversation(context.Background(), "u1", "c1", 30)
	assert.NoError(t, err)
	assert.Len(t, older, 1)
	assert.Equal(t, "m0", older[0].ID)
	assert.Empty(t, cursor)
	assert.False(t, older[0].CreatedAt.IsZero())
}

func TestConversationBusinessErrorWithNullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// HTTP 200 但业务失败，data 为 null
		w.Write([]byte(`{"code":500,"message":"conversation unavailable","data":null}`))
	})

	msgs, _, err := client.Conversation(context.Background(), "u1", "", 30)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conversation unavailable")
	assert.Nil(t, msgs)
}

func TestSendReturnsConfirmedRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/messages", r.URL.Path)
		w.Write([]byte(`{"code":200,"message":"success","data":{"id":"m9","senderId":"me","receiverId":"u1","content":"hi","createdAt":"2026-03-10T12:00:00Z"}}`))
	})

	sent, err := client.Send(context.Background(), "u1", "hi")
	assert.NoError(t, err)
	assert.Equal(t, "m9", sent.ID)
	assert.Equal(t, "u1", sent.ReceiverID)
}

func TestSendSurfacesBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"code":500,"message":"upstream down"}`))
	})

	_, err := client.Send(context.Background(), "u1", "hi")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestUserByIDMapsLegacyShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/u1", r.URL.Path)
		w.Write([]byte(`{"_id":"u1","fullname":{"firstname":"Ada","lastname":"Lovelace"},"email":"ada@example.com"}`))
	})

	peer, err := client.UserByID(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", peer.ID)
	assert.Equal(t, "Ada Lovelace", peer.Name)
}

func TestMeUnwrapsNestedUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/me", r.URL.Path)
		w.Write([]byte(`{"user":{"id":"me","name":"Alice","email":"a@b.c"}}`))
	})

	me, err := client.Me(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "me", me.ID)
	assert.Equal(t, "Alice", me.Name)
}

func TestMeToleratesBareUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"me","name":"Alice"}`))
	})

	me, err := client.Me(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "me", me.ID)
}
