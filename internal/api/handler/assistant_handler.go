package handler

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/response"
	"Skillmint/internal/service"
	"io"

	"github.com/gin-gonic/gin"
)

type AssistantResponse struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type AssistantHandler struct {
	assistantSvc service.AssistantService
}

func NewAssistantHandler(assistantSvc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantSvc: assistantSvc}
}

// Converse 流式问答；新对话先推一条 chat_id 事件
func (s *AssistantHandler) Converse(c *gin.Context) {
	var req dto.AssistantConverseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BadRequest, "参数格式错误")
		return
	}

	isNewChat := req.ChatID == ""

	outChan, chatID, err := s.assistantSvc.Converse(c.Request.Context(), req.Question, req.ChatID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		if isNewChat {
			c.SSEvent("", AssistantResponse{
				Type:    "chat_id",
				Content: chatID,
			})
			isNewChat = false
			return true
		}

		if msg, ok := <-outChan; ok {
			c.SSEvent("", AssistantResponse{
				Type:    "message",
				Content: msg,
			})
			return true
		}

		c.SSEvent("", AssistantResponse{
			Type:    "done",
			Content: "EOF",
		})
		return false
	})
}

// Reset 丢弃某个对话的上下文
func (s *AssistantHandler) Reset(c *gin.Context) {
	chatID := c.Param("chat_id")
	if chatID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	s.assistantSvc.Reset(chatID)
	response.Success(c, nil)
}
