package api

import "Skillmint/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	SessionHandler   *handler.SessionHandler
	MessageHandler   *handler.MessageHandler
	NotifyHandler    *handler.NotifyHandler
	WidgetHandler    *handler.WidgetHandler
	AssistantHandler *handler.AssistantHandler
}
