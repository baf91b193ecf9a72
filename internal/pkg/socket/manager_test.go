package socket

import (
	"Skillmint/internal/api/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type wsServer struct {
	srv *httptest.Server

	mu     sync.Mutex
	tokens []string
	conns  []*websocket.Conn
	recv   chan envelope
}

func newWsServer(t *testing.T) *wsServer {
	t.Helper()
	s := &wsServer{recv: make(chan envelope, 16)}
	upgrader := websocket.Upgrader{}

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.tokens = append(s.tokens, r.URL.Query().Get("token"))
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		go func() {
			for {
				var env envelope
				if err := conn.ReadJSON(&env); err != nil {
					return
				}
				s.recv <- env
			}
		}()
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *wsServer) push(t *testing.T, event string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	assert.NoError(t, err)
	payload, err := json.Marshal(&envelope{Event: event, Data: data})
	assert.NoError(t, err)

	s.mu.Lock()
	conn := s.conns[len(s.conns)-1]
	s.mu.Unlock()
	assert.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
}

func newTestManager(endpoint string) *Manager {
	return NewManager(config.SocketConfig{
		URL:           endpoint,
		RetryAttempts: 2,
		RetryDelayMs:  10,
	}, "")
}

func TestConnectIsIdempotentAndPassesToken(t *testing.T) {
	server := newWsServer(t)
	mgr := newTestManager(server.url())
	defer mgr.Disconnect()

	conn := mgr.Connect("tok-1")
	assert.NotNil(t, conn)
	assert.True(t, mgr.Connected())

	// 重复连接复用同一条
	assert.Same(t, conn, mgr.Connect("tok-2"))

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, []string{"tok-1"}, server.tokens)
}

func TestSubscribeDispatchAndCancel(t *testing.T) {
	server := newWsServer(t)
	mgr := newTestManager(server.url())
	defer mgr.Disconnect()

	got := make(chan string, 4)
	sub := mgr.Subscribe("message:new", func(data json.RawMessage) {
		var m map[string]string
		assert.NoError(t, json.Unmarshal(data, &m))
		got <- m["id"]
	})

	assert.NotNil(t, mgr.Connect(""))
	server.push(t, "message:new", map[string]string{"id": "m1"})
	server.push(t, "other:event", map[string]string{"id": "nope"})

	select {
	case id := <-got:
		assert.Equal(t, "m1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("event not dispatched")
	}

	sub.Cancel()
	server.push(t, "message:new", map[string]string{"id": "m2"})

	select {
	case id := <-got:
		t.Fatalf("cancelled subscription still fired: %s", id)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEmitSendsEnvelope(t *testing.T) {
	server := newWsServer(t)
	mgr := newTestManager(server.url())
	defer mgr.Disconnect()

	// 未连接时静默丢弃
	assert.NoError(t, mgr.Emit("notifications:join", map[string]string{"userId": "me"}))

	assert.NotNil(t, mgr.Connect(""))
	assert.NoError(t, mgr.Emit("notifications:join", map[string]string{"userId": "me"}))

	select {
	case env := <-server.recv:
		assert.Equal(t, "notifications:join", env.Event)
		var payload map[string]string
		assert.NoError(t, json.Unmarshal(env.Data, &payload))
		assert.Equal(t, "me", payload["userId"])
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive emit")
	}
}

func TestReconnectAfterServerDrop(t *testing.T) {
	server := newWsServer(t)
	mgr := newTestManager(server.url())
	defer mgr.Disconnect()

	got := make(chan string, 4)
	mgr.Subscribe("message:new", func(data json.RawMessage) {
		var m map[string]string
		_ = json.Unmarshal(data, &m)
		got <- m["id"]
	})
	assert.NotNil(t, mgr.Connect("tok"))

	// 服务端踢掉第一条连接，管理器应原地重连
	server.mu.Lock()
	first := server.conns[0]
	server.mu.Unlock()
	_ = first.Close()

	deadline := time.Now().Add(3 * time.Second)
	for {
		server.mu.Lock()
		n := len(server.conns)
		server.mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("manager did not reconnect")
		}
		time.Sleep(20 * time.Millisecond)
	}

	// 重连后的连接仍然分发事件
	server.push(t, "message:new", map[string]string{"id": "after"})
	select {
	case id := <-got:
		assert.Equal(t, "after", id)
	case <-time.After(2 * time.Second):
		t.Fatal("event not dispatched after reconnect")
	}
}

func TestSubscriptionsSurviveDisconnectReconnect(t *testing.T) {
	server := newWsServer(t)
	mgr := newTestManager(server.url())
	defer mgr.Disconnect()

	got := make(chan string, 4)
	mgr.Subscribe("message:new", func(data json.RawMessage) {
		var m map[string]string
		_ = json.Unmarshal(data, &m)
		got <- m["id"]
	})

	assert.NotNil(t, mgr.Connect("tok-old"))
	server.push(t, "message:new", map[string]string{"id": "before"})
	select {
	case id := <-got:
		assert.Equal(t, "before", id)
	case <-time.After(2 * time.Second):
		t.Fatal("event not dispatched before reconnect")
	}

	// 凭据轮换：断开再连，订阅必须继续生效
	mgr.Disconnect()
	assert.False(t, mgr.Connected())
	assert.Nil(t, mgr.Get())
	assert.NotNil(t, mgr.Connect("tok-new"))

	server.push(t, "message:new", map[string]string{"id": "after"})
	select {
	case id := <-got:
		assert.Equal(t, "after", id)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription lost across disconnect/reconnect")
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, []string{"tok-old", "tok-new"}, server.tokens)
}

func TestDialFailureIsBounded(t *testing.T) {
	mgr := newTestManager("ws://127.0.0.1:1") // 无人监听
	start := time.Now()
	assert.Nil(t, mgr.Connect(""))
	assert.False(t, mgr.Connected())
	// 2 次尝试 × 10ms 间隔，远小于 2s
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestToWsURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:4000", toWsURL("http://localhost:4000"))
	assert.Equal(t, "wss://example.com", toWsURL("https://example.com"))
	assert.Equal(t, "ws://raw", toWsURL("ws://raw"))
}
