package dto

// Response 桥接层统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// AssistantConverseReq 本地 AI 助手提问
type AssistantConverseReq struct {
	Question string `json:"question" binding:"required"`
	ChatID   string `json:"chat_id"`
}

// SessionDTO 规范化的用户会话（唯一的用户上下文形态）
type SessionDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
