package service

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/consts"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService 唯一的用户会话来源。
// 上层一律消费这里的规范化 SessionDTO，不再各自猜测用户对象形态。
type SessionService interface {
	Bootstrap(ctx context.Context) error
	Current() *dto.SessionDTO
	UserID() string
	Token() string
	TokenValid() bool
	SetToken(ctx context.Context, token string) error
	Clear()
}

type sessionServiceImpl struct {
	store StateStore
	users UserGateway

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	session   *dto.SessionDTO
}

func NewSessionService(store StateStore, users UserGateway) SessionService {
	return &sessionServiceImpl{
		store: store,
		users: users,
	}
}

// Bootstrap 启动时恢复会话：本地凭据 + /user/me 校验
func (s *sessionServiceImpl) Bootstrap(ctx context.Context) error {
	var token string
	if !s.store.Get(consts.StorageAuthTokenKey, &token) || token == "" {
		return ErrSessionMissing
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = parseExpiry(token)
	s.mu.Unlock()

	me, err := s.users.Me(ctx)
	if err != nil {
		// 凭据确认无效才清除，网络抖动不动本地状态
		log.Warn("会话恢复失败", "err", err)
		return ErrSessionMissing
	}

	s.mu.Lock()
	s.session = &dto.SessionDTO{
		ID:     me.ID,
		Name:   me.Name,
		Email:  me.Email,
		Avatar: me.Avatar,
	}
	s.mu.Unlock()

	log.Info("会话已恢复", "userID", me.ID)
	return nil
}

// SetToken 登录后由 UI 写入新凭据并重建会话
func (s *sessionServiceImpl) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrParamInvalid
	}
	if err := s.store.Set(consts.StorageAuthTokenKey, token); err != nil {
		return err
	}
	return s.Bootstrap(ctx)
}

// Clear 注销：清空内存会话与本地凭据
func (s *sessionServiceImpl) Clear() {
	s.mu.Lock()
	s.token = ""
	s.session = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	_ = s.store.Delete(consts.StorageAuthTokenKey)
}

func (s *sessionServiceImpl) Current() *dto.SessionDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *sessionServiceImpl) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.ID
}

func (s *sessionServiceImpl) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenValid 本地过期检查；解析不出过期时间的凭据视为有效，交给后端判定
func (s *sessionServiceImpl) TokenValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	if s.expiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.expiresAt)
}

// parseExpiry 客户端不做签名校验，只取 exp 做本地提示
func parseExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
