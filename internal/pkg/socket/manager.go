package socket

import (
	"Skillmint/internal/api/config"
	log "log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// envelope 通道上的事件信封
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Manager 持有到后端的唯一一条 Socket 连接。
// Connect 幂等；断线由固定次数、固定间隔的重连策略兜底，
// 未连接对调用方而言是正常可恢复状态，任何操作都不会因此抛错。
type Manager struct {
	endpoint string
	attempts int
	delay    time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	token     string
	gen       uint64

	writeMu sync.Mutex

	subMu  sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]Handler
}

// NewManager endpoint 优先取 socket 配置，否则回退到后端同源地址
func NewManager(cfg config.SocketConfig, serverBaseURL string) *Manager {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = toWsURL(serverBaseURL)
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 10
	}
	delay := time.Duration(cfg.RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return &Manager{
		endpoint: endpoint,
		attempts: attempts,
		delay:    delay,
		subs:     make(map[string]map[uint64]Handler),
	}
}

// Connect 建立（或复用）连接；并发调用也只会产生一条连接
func (s *Manager) Connect(token string) *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected && s.conn != nil {
		return s.conn
	}

	s.token = token
	conn := s.dialLocked()
	if conn == nil {
		return nil
	}

	s.conn = conn
	s.connected = true
	s.gen++
	go s.readPump(conn, s.gen)

	log.Info("Socket 连接已建立", "endpoint", s.endpoint)
	return conn
}

// Get 返回当前连接；从未连接或已断开时返回 nil
func (s *Manager) Get() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	return s.conn
}

// Connected 供离线指示器使用
func (s *Manager) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Disconnect 关闭连接；之后 Get 返回 nil。
// 订阅与连接的生命周期无关：凭据轮换等场景断开再 Connect 后，
// 原有订阅继续生效。摘除订阅走 Subscription.Cancel。
func (s *Manager) Disconnect() {
	s.mu.Lock()
	s.gen++ // 作废在途的读循环
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
		log.Info("Socket 连接已断开")
	}
}

// Subscribe 注册事件回调，返回可单独取消的句柄
func (s *Manager) Subscribe(event string, fn Handler) *Subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	if s.subs[event] == nil {
		s.subs[event] = make(map[uint64]Handler)
	}
	s.subs[event][id] = fn

	return &Subscription{event: event, id: id, mgr: s}
}

// Emit 发送事件；未连接时静默丢弃
func (s *Manager) Emit(event string, v any) error {
	conn := s.Get()
	if conn == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(&envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *Manager) unsubscribe(event string, id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if m, ok := s.subs[event]; ok {
		delete(m, id)
	}
}

// dialLocked 固定次数、固定间隔的拨号重试；连接失败只记日志，不上抛
func (s *Manager) dialLocked() *websocket.Conn {
	target := s.endpoint
	if s.token != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + "token=" + url.QueryEscape(s.token)
	}

	for i := 0; i < s.attempts; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(target, nil)
		if err == nil {
			return conn
		}
		log.Warn("Socket 拨号失败", "attempt", i+1, "err", err)
		time.Sleep(s.delay)
	}
	return nil
}

// readPump 读循环：解析事件信封并分发给订阅者
func (s *Manager) readPump(conn *websocket.Conn, gen uint64) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.onReadError(gen, err)
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Warn("Socket 事件解析失败", "err", err)
			continue
		}
		s.dispatch(env.Event, env.Data)
	}
}

func (s *Manager) dispatch(event string, data json.RawMessage) {
	s.subMu.Lock()
	handlers := make([]Handler, 0, len(s.subs[event]))
	for _, fn := range s.subs[event] {
		handlers = append(handlers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range handlers {
		fn(data)
	}
}

// onReadError 读失败后尝试原地重连；读循环的 gen 过期则说明已被主动断开
func (s *Manager) onReadError(gen uint64, err error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	log.Warn("Socket 连接中断，尝试重连", "err", err)
	s.connected = false
	s.conn = nil

	conn := s.dialLocked()
	if conn == nil {
		s.mu.Unlock()
		log.Warn("Socket 重连失败，进入离线状态")
		return
	}

	s.conn = conn
	s.connected = true
	s.gen++
	newGen := s.gen
	s.mu.Unlock()

	log.Info("Socket 重连成功")
	go s.readPump(conn, newGen)
}

// toWsURL http(s) 地址转同源 ws(s) 地址
func toWsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
