package job

import (
	"Skillmint/internal/pkg/logger"
	"Skillmint/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ThreadRefreshJob 周期重拉会话列表，修正推送丢失造成的预览漂移
type ThreadRefreshJob struct {
	session service.SessionService
	threads service.ThreadService
}

func NewThreadRefreshJob(session service.SessionService, threads service.ThreadService) *ThreadRefreshJob {
	return &ThreadRefreshJob{
		session: session,
		threads: threads,
	}
}

func (s *ThreadRefreshJob) Run() {
	traceID := "job-threads-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	if s.session.UserID() == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.threads.LoadThreads(ctx); err != nil {
		log.WarnContext(ctx, "会话列表周期刷新失败", "err", err)
		return
	}
	log.InfoContext(ctx, "会话列表周期刷新完成")
}
