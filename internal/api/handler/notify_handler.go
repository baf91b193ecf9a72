package handler

import (
	"Skillmint/internal/pkg/response"
	"Skillmint/internal/service"

	"github.com/gin-gonic/gin"
)

type NotifyHandler struct {
	notifySvc service.NotifyService
}

func NewNotifyHandler(notifySvc service.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifySvc: notifySvc}
}

// State 通知流当前状态
func (s *NotifyHandler) State(c *gin.Context) {
	response.Success(c, s.notifySvc.State())
}

// Open 打开通知面板，未读清零
func (s *NotifyHandler) Open(c *gin.Context) {
	response.Success(c, s.notifySvc.OpenPanel())
}
