package storage

import (
	log "log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Store 文件型键值存储，承担浏览器 localStorage 的角色。
// 值以 JSON 保存；读到损坏的值时静默丢弃，调用方回退到默认值。
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// Open 加载（或新建）状态文件
func Open(path string) *Store {
	s := &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("本地状态文件读取失败，使用空状态", "path", path, "err", err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		// 文件损坏视同不存在
		log.Warn("本地状态文件已损坏，使用空状态", "path", path, "err", err)
		s.values = make(map[string]json.RawMessage)
	}
	return s
}

// Get 按键解码值；键不存在或值损坏时返回 false
func (s *Store) Get(key string, v any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

// Set 写入值并落盘
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal value")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.flushLocked()
}

// Delete 删除键并落盘
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked 先写临时文件再重命名，避免半截写入
func (s *Store) flushLocked() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, "marshal store")
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "mkdir store dir")
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write temp store")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "rename store")
	}
	return nil
}
