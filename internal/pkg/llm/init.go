package llm

import (
	"Skillmint/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

var chatPrompt string

var ready bool

// InitLLM 连接本地 openai 兼容推理端点；失败时助手整体降级为不可用
func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	chatPrompt = readPrompt(cfg.PromptPath)

	ready = true
	return nil
}

// Ready 助手是否可用
func Ready() bool {
	return ready
}
