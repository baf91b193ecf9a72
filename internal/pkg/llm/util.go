package llm

import (
	log "log/slog"
	"os"

	"golang.org/x/sync/semaphore"
)

// TextSem 限制并发的推理请求数，避免压垮本地端点
var TextSem = semaphore.NewWeighted(2)

func readPrompt(file string) string {
	if file == "" {
		return ""
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("读取prompt文件失败", "err", err)
		return ""
	}
	return string(data)
}
