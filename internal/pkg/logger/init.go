package logger

import (
	"Skillmint/internal/api/config"
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

func InitLogger() {
	cfg := config.Cfg.Log

	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})

	var finalHandler log.Handler = hStdout
	LogWriter = os.Stdout

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			hFile := log.NewJSONHandler(f, &log.HandlerOptions{Level: log.LevelInfo})
			finalHandler = &TeeHandler{
				handlers: []log.Handler{hStdout, hFile},
			}
			LogWriter = f
		} else {
			log.Warn("Failed to open log file, logging to stdout only", "err", err)
		}
	}

	logger := log.New(&ContextHandler{finalHandler})
	log.SetDefault(logger)
}
