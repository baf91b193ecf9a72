package llm

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"
)

var chainMu sync.Mutex
var mapChatIdToChain = make(map[string]*chains.LLMChain)

// ChatWithChain 带会话记忆的流式对话；同一 chatId 复用同一条链
func ChatWithChain(ctx context.Context, question string, chatId string) (chan string, error) {
	if !ready {
		return nil, errors.New("assistant unavailable")
	}

	split := strings.Split(chatPrompt, "---")
	systemPromptTpl := split[0]
	userPromptTpl := "{{.question}}"
	if len(split) > 1 {
		userPromptTpl = split[1]
	}

	promptTemplate := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(
			systemPromptTpl,
			nil,
		),

		prompts.NewHumanMessagePromptTemplate(
			userPromptTpl,
			[]string{"question"},
		),
	})

	chainMu.Lock()
	chain, ok := mapChatIdToChain[chatId]
	if !ok {
		mem := memory.NewConversationBuffer()
		chain = chains.NewLLMChain(llmClient, promptTemplate)
		chain.Memory = mem
		mapChatIdToChain[chatId] = chain
	}
	chainMu.Unlock()

	inputs := map[string]any{
		"question": question,
	}

	stream := make(chan string, 10)

	go func() {
		defer close(stream)

		if err := TextSem.Acquire(ctx, 1); err != nil {
			return
		}
		defer TextSem.Release(1)

		_, err := chains.Call(
			ctx,
			chain,
			inputs,
			chains.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				stream <- string(chunk)
				return nil
			}),
		)

		if err != nil {
			log.Error("AI大模型请求失败", "err", err)
		}
	}()

	return stream, nil
}

// ResetChat 丢弃某个会话的记忆
func ResetChat(chatId string) {
	chainMu.Lock()
	delete(mapChatIdToChain, chatId)
	chainMu.Unlock()
}
