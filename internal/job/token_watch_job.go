package job

import (
	"Skillmint/internal/pkg/logger"
	"Skillmint/internal/pkg/socket"
	"Skillmint/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TokenWatchJob 周期检查本地令牌是否过期。
// 过期后断开 Socket 并清除会话，由 UI 引导重新登录。
type TokenWatchJob struct {
	session service.SessionService
	socket  *socket.Manager
	notify  service.NotifyService
}

func NewTokenWatchJob(session service.SessionService, sock *socket.Manager, notify service.NotifyService) *TokenWatchJob {
	return &TokenWatchJob{
		session: session,
		socket:  sock,
		notify:  notify,
	}
}

func (s *TokenWatchJob) Run() {
	traceID := "job-token-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	if s.session.Token() == "" {
		return
	}
	if s.session.TokenValid() {
		return
	}

	log.WarnContext(ctx, "本地令牌已过期，断开实时通道")
	s.socket.Disconnect()
	s.notify.SetConnected(false)
	s.session.Clear()
}
