package service

import (
	"Skillmint/internal/api/dto"
	"fmt"
	"sync"
	"time"
)

// NotifyService 通知流：presence 与新消息事件的环形缓冲，
// 最新在前，容量固定，超出即丢弃最老的一条。
type NotifyService interface {
	OnPresence(p *dto.PresenceUpdateDTO, displayName string)
	OnMessage(msg *dto.MessageDTO, senderName string)
	OpenPanel() *dto.NotifyStateDTO
	State() *dto.NotifyStateDTO
	SetConnected(connected bool)
	Connected() bool
}

type notifyServiceImpl struct {
	cap int
	now func() time.Time

	mu        sync.Mutex
	items     []*dto.NotificationDTO
	unread    int
	connected bool
}

func NewNotifyService(feedCap int) NotifyService {
	if feedCap <= 0 {
		feedCap = 50
	}
	return &notifyServiceImpl{cap: feedCap, now: time.Now}
}

func (s *notifyServiceImpl) OnPresence(p *dto.PresenceUpdateDTO, displayName string) {
	if p == nil {
		return
	}
	if displayName == "" {
		displayName = "User " + p.UserID
	}
	verb := "offline"
	if p.Online {
		verb = "online"
	}
	s.push(&dto.NotificationDTO{
		Kind: dto.NotificationKindPresence,
		Text: fmt.Sprintf("%s is %s", displayName, verb),
		Ts:   s.now(),
	})
}

func (s *notifyServiceImpl) OnMessage(msg *dto.MessageDTO, senderName string) {
	if msg == nil {
		return
	}
	if senderName == "" {
		senderName = "User " + msg.SenderID
	}
	s.push(&dto.NotificationDTO{
		Kind: dto.NotificationKindMessage,
		Text: fmt.Sprintf("New message from %s", senderName),
		Ts:   s.now(),
	})
}

// OpenPanel 打开面板即清零未读，返回当前状态
func (s *notifyServiceImpl) OpenPanel() *dto.NotifyStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = 0
	return s.stateLocked()
}

func (s *notifyServiceImpl) State() *dto.NotifyStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *notifyServiceImpl) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *notifyServiceImpl) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// push 最新在前；超容量时截断尾部
func (s *notifyServiceImpl) push(n *dto.NotificationDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]*dto.NotificationDTO{n}, s.items...)
	if len(s.items) > s.cap {
		s.items = s.items[:s.cap]
	}
	s.unread++
}

func (s *notifyServiceImpl) stateLocked() *dto.NotifyStateDTO {
	items := make([]*dto.NotificationDTO, len(s.items))
	copy(items, s.items)
	return &dto.NotifyStateDTO{
		Items:     items,
		Unread:    s.unread,
		Connected: s.connected,
	}
}
