package main

import (
	"Skillmint/internal/api/config"
	"Skillmint/internal/pkg/cron"
	"Skillmint/internal/pkg/llm"
	"Skillmint/internal/pkg/logger"
	"Skillmint/internal/pkg/storage"
	"Skillmint/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()

	// 本地状态文件
	store := storage.Open(cfg.Storage.Path)

	// llm 模型初始化；助手是可选能力，失败不阻断启动
	if err := llm.InitLLM(); err != nil {
		log.Warn("AI助手初始化失败，相关能力不可用", "err", err)
	}

	// 依赖注入
	app, err := wire.BuildApplication(store, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 恢复会话并建立实时通道；无本地凭据时等待 UI 登录
	if err = app.Session.Bootstrap(ctx); err != nil {
		log.Warn("会话未恢复，等待登录", "err", err)
	} else {
		app.Connect(ctx)
		if err = app.Threads.LoadThreads(ctx); err != nil {
			log.Warn("启动时会话列表加载失败", "err", err)
		}
	}

	// 定时任务
	err = cron.InitCron(app.CronMgr)
	if err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// 本地桥接服务器
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Bridge.Port),
		Handler: app.Router,
	}
	g.Go(func() error {
		log.Info("Bridge Server starting...", "addr", srv.Addr)
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		app.Socket.Disconnect()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Bridge Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
