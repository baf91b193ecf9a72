package api

import (
	"Skillmint/internal/api/middleware"
	"Skillmint/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		sessionGroup := apiGroup.Group("/session")
		{
			sessionGroup.GET("", group.SessionHandler.Current)
			sessionGroup.POST("/token", group.SessionHandler.SetToken)
			sessionGroup.POST("/logout", group.SessionHandler.Logout)
		}

		messageGroup := apiGroup.Group("/messages")
		{
			messageGroup.GET("/threads", group.MessageHandler.Threads)
			messageGroup.POST("/threads/refresh", group.MessageHandler.RefreshThreads)
			messageGroup.POST("/select", group.MessageHandler.Select)
			messageGroup.GET("/window", group.MessageHandler.Window)
			messageGroup.POST("/send", group.MessageHandler.Send)
			messageGroup.POST("/older", group.MessageHandler.LoadOlder)
		}

		notifyGroup := apiGroup.Group("/notify")
		{
			notifyGroup.GET("", group.NotifyHandler.State)
			notifyGroup.POST("/open", group.NotifyHandler.Open)
		}

		widgetGroup := apiGroup.Group("/widget")
		{
			widgetGroup.GET("", group.WidgetHandler.State)
			widgetGroup.POST("/mount", group.WidgetHandler.Mount)
			widgetGroup.POST("/unmount", group.WidgetHandler.Unmount)
			widgetGroup.POST("/pointer", group.WidgetHandler.Pointer)
			widgetGroup.POST("/resize", group.WidgetHandler.Resize)
			widgetGroup.POST("/trigger", group.WidgetHandler.Trigger)
		}

		assistantGroup := apiGroup.Group("/assistant")
		{
			assistantGroup.POST("/converse", group.AssistantHandler.Converse)
			assistantGroup.DELETE("/chats/:chat_id", group.AssistantHandler.Reset)
		}
	}

	return r
}
