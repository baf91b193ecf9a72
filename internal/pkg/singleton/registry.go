package singleton

import "sync"

// Registry 进程级单例占用登记。
// 持有者标记与哨兵标记双重判定：任一存在即认为已有活跃实例，
// 只有两者都由本次调用写入时抢占才算成功。
type Registry struct {
	mu      sync.Mutex
	owner   string
	markers map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		markers: make(map[string]struct{}),
	}
}

// TryAcquire 尝试抢占；成功时记录持有者并登记哨兵标记
func (s *Registry) TryAcquire(marker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != "" {
		return false
	}
	if _, exists := s.markers[marker]; exists {
		return false
	}

	s.owner = marker
	s.markers[marker] = struct{}{}
	return true
}

// Release 释放占用。只有持有者本人能释放，
// 其他标记的 Release 不影响当前占用。
func (s *Registry) Release(marker string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != marker {
		return
	}
	s.owner = ""
	delete(s.markers, marker)
}

// Active 当前是否有实例持有占用
func (s *Registry) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner != ""
}
