package cron

import (
	"Skillmint/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine           *cron.Cron
	tokenWatchJob    *job.TokenWatchJob
	threadRefreshJob *job.ThreadRefreshJob
}

func NewCronManager(tokenWatchJob *job.TokenWatchJob, threadRefreshJob *job.ThreadRefreshJob) *Manager {
	return &Manager{
		engine:           cron.New(cron.WithSeconds()),
		tokenWatchJob:    tokenWatchJob,
		threadRefreshJob: threadRefreshJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("0 * * * * *", s.tokenWatchJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 */5 * * * *", s.threadRefreshJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
