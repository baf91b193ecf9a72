package handler

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/response"
	"Skillmint/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	threadSvc service.ThreadService
	convSvc   service.ConversationService
}

func NewMessageHandler(threadSvc service.ThreadService, convSvc service.ConversationService) *MessageHandler {
	return &MessageHandler{
		threadSvc: threadSvc,
		convSvc:   convSvc,
	}
}

// Threads 会话列表，可选 keyword 过滤
func (s *MessageHandler) Threads(c *gin.Context) {
	keyword := c.Query("keyword")
	response.Success(c, s.threadSvc.Search(keyword))
}

// RefreshThreads 重新拉取会话列表
func (s *MessageHandler) RefreshThreads(c *gin.Context) {
	if err := s.threadSvc.LoadThreads(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.threadSvc.Threads())
}

// Select 切换当前会话，支持列表外用户的深链
func (s *MessageHandler) Select(c *gin.Context) {
	var req dto.SelectThreadReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	peer, err := s.threadSvc.SelectByPeerID(c.Request.Context(), req.PeerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, peer)
}

// Window 当前会话窗口快照
func (s *MessageHandler) Window(c *gin.Context) {
	response.Success(c, s.convSvc.Snapshot())
}

// Send 发送消息；to 指定且与当前会话不同时先切换
func (s *MessageHandler) Send(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if req.To != "" {
		active := s.convSvc.ActivePeer()
		if active == nil || active.ID != req.To {
			if _, err := s.threadSvc.SelectByPeerID(c.Request.Context(), req.To); err != nil {
				response.Error(c, err)
				return
			}
		}
	}

	sent, err := s.convSvc.Send(c.Request.Context(), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sent)
}

// LoadOlder 向前翻页
func (s *MessageHandler) LoadOlder(c *gin.Context) {
	result, err := s.convSvc.LoadOlder(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
