package handler

import (
	"Skillmint/internal/pkg/response"
	"Skillmint/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type tokenReq struct {
	Token string `json:"token" binding:"required"`
}

type SessionHandler struct {
	sessionSvc service.SessionService
	onLogin    func(ctx context.Context) // 登录成功后的回调，用于重建实时通道
}

func NewSessionHandler(sessionSvc service.SessionService, onLogin func(ctx context.Context)) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		onLogin:    onLogin,
	}
}

// Current 当前会话；未登录返回 401
func (s *SessionHandler) Current(c *gin.Context) {
	session := s.sessionSvc.Current()
	if session == nil {
		response.Error(c, service.ErrSessionMissing)
		return
	}
	response.Success(c, session)
}

// SetToken UI 登录后写入凭据并重建会话
func (s *SessionHandler) SetToken(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.sessionSvc.SetToken(c.Request.Context(), req.Token); err != nil {
		response.Error(c, err)
		return
	}
	if s.onLogin != nil {
		s.onLogin(c.Request.Context())
	}
	response.Success(c, s.sessionSvc.Current())
}

// Logout 清除会话
func (s *SessionHandler) Logout(c *gin.Context) {
	s.sessionSvc.Clear()
	response.Success(c, nil)
}
