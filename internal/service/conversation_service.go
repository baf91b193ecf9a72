package service

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/util"
	"context"
	log "log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ConvState 会话窗口状态机
type ConvState int

const (
	StateIdle ConvState = iota
	StateLoading
	StateReady
	StateError
)

func (s ConvState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type entryKind int

const (
	entryConfirmed entryKind = iota
	entryPending
)

// messageEntry 窗口内的一条消息。
// pending 条目通过 localID 与发送请求关联，确认后原位替换为服务端记录。
type messageEntry struct {
	kind    entryKind
	localID string
	msg     *dto.MessageDTO
}

// window 单个会话的窗口状态；切换 peer 时整体丢弃重建，
// seen 集合只在窗口生命周期内用于去重，不持久化。
type window struct {
	peer    *dto.PeerDTO
	state   ConvState
	entries []*messageEntry
	seen    map[string]struct{}
	cursor  string
	loadErr error
}

// ConversationService 把 REST 历史、Socket 推送、乐观发送三路输入
// 合并成单一有序、无重复的消息序列。
type ConversationService interface {
	Open(ctx context.Context, peer *dto.PeerDTO) error
	LoadOlder(ctx context.Context) (*dto.LoadOlderResult, error)
	Send(ctx context.Context, content string) (*dto.MessageDTO, error)
	HandleIncoming(msg *dto.MessageDTO) bool
	Snapshot() *dto.ConversationSnapshot
	ActivePeer() *dto.PeerDTO
	Close()
}

type conversationServiceImpl struct {
	messages MessageGateway
	session  SessionService
	pageSize int
	now      func() time.Time

	mu  sync.Mutex
	gen uint64
	win *window
}

func NewConversationService(messages MessageGateway, session SessionService, pageSize int) ConversationService {
	if pageSize <= 0 {
		pageSize = 30
	}
	return &conversationServiceImpl{
		messages: messages,
		session:  session,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Open 切换活跃会话：丢弃旧窗口，从最近一页历史重建。
// 代际计数保证切换后才返回的过期响应不会覆盖新会话的状态。
func (s *conversationServiceImpl) Open(ctx context.Context, peer *dto.PeerDTO) error {
	if peer == nil || peer.ID == "" {
		return ErrParamInvalid
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.win = &window{
		peer:  peer,
		state: StateLoading,
		seen:  make(map[string]struct{}),
	}
	s.mu.Unlock()

	msgs, cursor, err := s.messages.Conversation(ctx, peer.ID, "", s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// 期间已切换到其他会话，丢弃过期响应
		return nil
	}
	if err != nil {
		log.Error("会话历史加载失败", "peerID", peer.ID, "err", err)
		s.win.state = StateError
		s.win.loadErr = err
		return ErrHistoryLoad
	}

	uid := s.session.UserID()
	for _, m := range msgs {
		if m == nil || m.ID == "" {
			continue
		}
		if _, dup := s.win.seen[m.ID]; dup {
			continue
		}
		m.IsMine = m.IsMine || (uid != "" && m.SenderID == uid)
		s.win.seen[m.ID] = struct{}{}
		s.win.entries = append(s.win.entries, &messageEntry{kind: entryConfirmed, msg: m})
	}
	s.win.cursor = cursor
	s.win.state = StateReady
	return nil
}

// LoadOlder 向前翻页：按游标取更早的一页并前插。
// 返回本次前插的条数，视图据此还原滚动锚点。
func (s *conversationServiceImpl) LoadOlder(ctx context.Context) (*dto.LoadOlderResult, error) {
	s.mu.Lock()
	if s.win == nil || s.win.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNoActivePeer
	}
	if s.win.cursor == "" {
		s.mu.Unlock()
		return &dto.LoadOlderResult{}, nil
	}
	gen := s.gen
	peerID := s.win.peer.ID
	cursor := s.win.cursor
	s.mu.Unlock()

	older, next, err := s.messages.Conversation(ctx, peerID, cursor, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return &dto.LoadOlderResult{}, nil
	}
	if err != nil {
		log.Warn("更早历史加载失败", "peerID", peerID, "err", err)
		return nil, ErrHistoryLoad
	}
	if len(older) == 0 {
		s.win.cursor = ""
		return &dto.LoadOlderResult{}, nil
	}

	uid := s.session.UserID()
	prepended := make([]*messageEntry, 0, len(older))
	for _, m := range older {
		if m == nil || m.ID == "" {
			continue
		}
		if _, dup := s.win.seen[m.ID]; dup {
			continue
		}
		m.IsMine = m.IsMine || (uid != "" && m.SenderID == uid)
		s.win.seen[m.ID] = struct{}{}
		prepended = append(prepended, &messageEntry{kind: entryConfirmed, msg: m})
	}
	s.win.entries = append(prepended, s.win.entries...)
	s.win.cursor = next

	return &dto.LoadOlderResult{
		Prepended: len(prepended),
		HasOlder:  next != "",
	}, nil
}

// Send 乐观发送：先插入 pending 条目，确认后原位替换，
// 失败则回滚条目并返回 ErrSendFailed，由调用方恢复草稿。
func (s *conversationServiceImpl) Send(ctx context.Context, content string) (*dto.MessageDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	uid := s.session.UserID()

	s.mu.Lock()
	if s.win == nil || s.win.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNoActivePeer
	}
	gen := s.gen
	peerID := s.win.peer.ID

	localID := uuid.NewString()
	pending := &messageEntry{
		kind:    entryPending,
		localID: localID,
		msg: &dto.MessageDTO{
			ID:         localID,
			SenderID:   uid,
			ReceiverID: peerID,
			Content:    content,
			CreatedAt:  dto.Timestamp{Time: s.now()},
			IsMine:     true,
		},
	}
	s.insertSortedLocked(pending)
	s.win.seen[localID] = struct{}{}
	s.mu.Unlock()

	sent, err := s.messages.Send(ctx, peerID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// 窗口已切换，旧窗口连同 pending 条目一并丢弃了
		return sent, nil
	}
	if err != nil {
		s.removePendingLocked(localID)
		delete(s.win.seen, localID)
		log.Error("消息发送失败", "peerID", peerID, "err", err)
		return nil, ErrSendFailed
	}

	for _, e := range s.win.entries {
		if e.kind != entryPending || e.localID != localID {
			continue
		}
		prevID := e.msg.ID
		prevAt := e.msg.CreatedAt
		_ = copier.Copy(e.msg, sent)
		if e.msg.ID == "" {
			e.msg.ID = prevID
		}
		if e.msg.CreatedAt.IsZero() {
			e.msg.CreatedAt = prevAt
		}
		e.msg.IsMine = true
		e.kind = entryConfirmed
		e.localID = ""

		delete(s.win.seen, localID)
		s.win.seen[e.msg.ID] = struct{}{}
		break
	}
	return sent, nil
}

// HandleIncoming Socket 推送入口。返回是否被接收。
// 自己发出的消息的服务端回声无条件丢弃：本端已经乐观渲染过。
func (s *conversationServiceImpl) HandleIncoming(msg *dto.MessageDTO) bool {
	if msg == nil {
		return false
	}
	uid := s.session.UserID()
	if uid != "" && msg.SenderID == uid {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.win == nil || s.win.state != StateReady {
		return false
	}

	peerID := s.win.peer.ID
	if msg.SenderID != peerID && msg.ReceiverID != peerID {
		return false
	}

	if msg.ID != "" {
		if _, dup := s.win.seen[msg.ID]; dup {
			return false
		}
		s.win.seen[msg.ID] = struct{}{}
	}

	msg.IsMine = false
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = dto.Timestamp{Time: s.now()}
	}
	s.insertSortedLocked(&messageEntry{kind: entryConfirmed, msg: msg})
	return true
}

// Snapshot 当前窗口视图；Groups 为按自然日切分的派生展示
func (s *conversationServiceImpl) Snapshot() *dto.ConversationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &dto.ConversationSnapshot{
		State:    StateIdle.String(),
		Messages: []*dto.MessageDTO{},
		Groups:   []*dto.DayGroupDTO{},
	}
	if s.win == nil {
		return snap
	}

	snap.Peer = s.win.peer
	snap.State = s.win.state.String()
	snap.HasOlder = s.win.cursor != ""
	if s.win.loadErr != nil {
		snap.Error = ErrHistoryLoad.Error()
	}

	for _, e := range s.win.entries {
		m := *e.msg
		snap.Messages = append(snap.Messages, &m)
	}
	snap.Groups = s.groupByDay(snap.Messages)
	return snap
}

func (s *conversationServiceImpl) ActivePeer() *dto.PeerDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.win == nil {
		return nil
	}
	return s.win.peer
}

// Close 关闭会话视图；在途响应按代际作废
func (s *conversationServiceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.win = nil
}

// insertSortedLocked 从尾部回溯找插入点，时间相同保持到达顺序
func (s *conversationServiceImpl) insertSortedLocked(e *messageEntry) {
	entries := s.win.entries
	idx := len(entries)
	for idx > 0 && entries[idx-1].msg.CreatedAt.After(e.msg.CreatedAt.Time) {
		idx--
	}
	entries = append(entries, nil)
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = e
	s.win.entries = entries
}

func (s *conversationServiceImpl) removePendingLocked(localID string) {
	for i, e := range s.win.entries {
		if e.kind == entryPending && e.localID == localID {
			s.win.entries = append(s.win.entries[:i], s.win.entries[i+1:]...)
			return
		}
	}
}

func (s *conversationServiceImpl) groupByDay(msgs []*dto.MessageDTO) []*dto.DayGroupDTO {
	groups := []*dto.DayGroupDTO{}
	now := s.now()
	var cur *dto.DayGroupDTO
	for _, m := range msgs {
		label := util.DayLabel(m.CreatedAt.Time, now)
		if cur == nil || cur.Label != label {
			cur = &dto.DayGroupDTO{Label: label}
			groups = append(groups, cur)
		}
		cur.Messages = append(cur.Messages, m)
	}
	return groups
}
