package service

import (
	"Skillmint/internal/pkg/llm"
	"context"
	log "log/slog"
	"strings"

	"github.com/google/uuid"
)

// AssistantService 本地 AI 助手，按 chatID 维护多轮对话
type AssistantService interface {
	Converse(ctx context.Context, question, chatID string) (<-chan string, string, error)
	Reset(chatID string)
}

type assistantServiceImpl struct{}

func NewAssistantService() AssistantService {
	return &assistantServiceImpl{}
}

// Converse 流式问答；chatID 为空时开启新对话并返回生成的 ID
func (s *assistantServiceImpl) Converse(ctx context.Context, question, chatID string) (<-chan string, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, "", ErrParamInvalid
	}
	if !llm.Ready() {
		return nil, "", ErrAssistantDown
	}
	if chatID == "" {
		chatID = uuid.NewString()
	}

	ch, err := llm.ChatWithChain(ctx, question, chatID)
	if err != nil {
		log.Error("助手对话失败", "chatID", chatID, "err", err)
		return nil, "", ErrAssistantDown
	}
	return ch, chatID, nil
}

func (s *assistantServiceImpl) Reset(chatID string) {
	if chatID == "" {
		return
	}
	llm.ResetChat(chatID)
}
