package socket

import "github.com/goccy/go-json"

// Handler 事件回调，入参为事件负载原文
type Handler func(data json.RawMessage)

// Subscription 显式的订阅句柄；Cancel 只摘除自己，不影响其他订阅者
type Subscription struct {
	event string
	id    uint64
	mgr   *Manager
}

func (s *Subscription) Cancel() {
	if s == nil || s.mgr == nil {
		return
	}
	s.mgr.unsubscribe(s.event, s.id)
	s.mgr = nil
}
