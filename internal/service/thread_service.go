package service

import (
	"Skillmint/internal/api/dto"
	"context"
	log "log/slog"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ThreadService 会话列表：加载、选择、搜索与实时预览更新。
// 选中会话的最新消息不计未读，其余会话累加角标。
type ThreadService interface {
	LoadThreads(ctx context.Context) error
	SelectByPeerID(ctx context.Context, peerID string) (*dto.PeerDTO, error)
	Search(keyword string) []*dto.ThreadDTO
	ApplyMessage(msg *dto.MessageDTO)
	SetOnline(userID string, online bool)
	Threads() []*dto.ThreadDTO
}

type threadServiceImpl struct {
	messages MessageGateway
	users    UserGateway
	session  SessionService
	conv     ConversationService

	mu      sync.Mutex
	threads []*dto.ThreadDTO
	loaded  bool
}

func NewThreadService(messages MessageGateway, users UserGateway, session SessionService, conv ConversationService) ThreadService {
	return &threadServiceImpl{
		messages: messages,
		users:    users,
		session:  session,
		conv:     conv,
	}
}

// LoadThreads 拉取会话列表；尚无活跃会话时默认打开第一个
func (s *threadServiceImpl) LoadThreads(ctx context.Context) error {
	threads, err := s.messages.Threads(ctx)
	if err != nil {
		log.Error("会话列表加载失败", "err", err)
		return ErrThreadsLoad
	}

	s.mu.Lock()
	s.threads = threads
	s.loaded = true
	var first *dto.PeerDTO
	if len(threads) > 0 && s.conv.ActivePeer() == nil {
		first = threads[0].Peer
	}
	s.mu.Unlock()

	if first != nil {
		if err := s.conv.Open(ctx, first); err != nil {
			log.Warn("默认会话打开失败", "peerID", first.ID, "err", err)
		}
	}
	return nil
}

// SelectByPeerID 选择会话。peerID 不在列表中时按深链处理：
// 单独拉取该用户资料并临时置顶一个空会话项。
func (s *threadServiceImpl) SelectByPeerID(ctx context.Context, peerID string) (*dto.PeerDTO, error) {
	if peerID == "" {
		return nil, ErrParamInvalid
	}

	s.mu.Lock()
	var peer *dto.PeerDTO
	var target *dto.ThreadDTO
	for _, t := range s.threads {
		if t.Peer != nil && t.Peer.ID == peerID {
			peer = t.Peer
			target = t
			break
		}
	}
	s.mu.Unlock()

	if peer == nil {
		fetched, err := s.users.UserByID(ctx, peerID)
		if err != nil {
			log.Warn("深链用户资料拉取失败", "peerID", peerID, "err", err)
			return nil, errors.Wrap(ErrPeerNotFound, peerID)
		}
		peer = fetched
		s.mu.Lock()
		s.threads = append([]*dto.ThreadDTO{{Peer: peer}}, s.threads...)
		s.mu.Unlock()
	}

	if err := s.conv.Open(ctx, peer); err != nil {
		return nil, err
	}

	if target != nil {
		s.mu.Lock()
		target.UnreadCount = 0
		s.mu.Unlock()
	}
	return peer, nil
}

// Search 按展示名不区分大小写的子串过滤；空关键字返回全量
func (s *threadServiceImpl) Search(keyword string) []*dto.ThreadDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return s.copyThreadsLocked()
	}

	out := []*dto.ThreadDTO{}
	for _, t := range s.threads {
		if t.Peer == nil {
			continue
		}
		if strings.Contains(strings.ToLower(t.Peer.DisplayName()), keyword) {
			out = append(out, t)
		}
	}
	return out
}

// ApplyMessage 实时消息落到会话列表：刷新预览，非活跃会话未读加一
func (s *threadServiceImpl) ApplyMessage(msg *dto.MessageDTO) {
	if msg == nil {
		return
	}

	uid := s.session.UserID()
	peerID := msg.SenderID
	if uid != "" && msg.SenderID == uid {
		peerID = msg.ReceiverID
	}

	active := s.conv.ActivePeer()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.threads {
		if t.Peer == nil || t.Peer.ID != peerID {
			continue
		}
		t.LastMessage = &dto.LastMessageDTO{
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
		ownEcho := uid != "" && msg.SenderID == uid
		if !ownEcho && (active == nil || active.ID != peerID) {
			t.UnreadCount++
		}
		return
	}
}

// SetOnline 更新列表中某个用户的在线标记
func (s *threadServiceImpl) SetOnline(userID string, online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.threads {
		if t.Peer != nil && t.Peer.ID == userID {
			t.Peer.IsOnline = online
			return
		}
	}
}

func (s *threadServiceImpl) Threads() []*dto.ThreadDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyThreadsLocked()
}

func (s *threadServiceImpl) copyThreadsLocked() []*dto.ThreadDTO {
	out := make([]*dto.ThreadDTO, len(s.threads))
	copy(out, s.threads)
	return out
}
