package cron

import (
	log "log/slog"

	"github.com/pkg/errors"
)

// InitCron 注册并启动 bridge 的后台任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return errors.Wrap(err, "register jobs")
	}
	mgr.Start()
	log.Info("后台任务调度已启动")
	return nil
}
