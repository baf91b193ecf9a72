package wire

import (
	"Skillmint/internal/api"
	"Skillmint/internal/api/config"
	"Skillmint/internal/api/dto"
	"Skillmint/internal/api/handler"
	"Skillmint/internal/job"
	"Skillmint/internal/pkg/consts"
	"Skillmint/internal/pkg/cron"
	"Skillmint/internal/pkg/rest"
	"Skillmint/internal/pkg/singleton"
	"Skillmint/internal/pkg/socket"
	"Skillmint/internal/pkg/storage"
	"Skillmint/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
	Socket  *socket.Manager
	Session service.SessionService
	Threads service.ThreadService
	Notify  service.NotifyService

	// Connect 按当前凭据建立实时通道并加入通知房间
	Connect func(ctx context.Context)
}

func BuildApplication(store *storage.Store, cfg *config.Config) (*ApplicationContainer, error) {
	var sessionSvc service.SessionService
	client := rest.NewClient(cfg.Server, rest.TokenFunc(func() string {
		if sessionSvc == nil {
			return ""
		}
		return sessionSvc.Token()
	}))
	sessionSvc = service.NewSessionService(store, client)

	convSvc := service.NewConversationService(client, sessionSvc, cfg.Chat.PageSize)
	threadSvc := service.NewThreadService(client, client, sessionSvc, convSvc)
	notifySvc := service.NewNotifyService(cfg.Notify.FeedCap)
	assistantSvc := service.NewAssistantService()

	registry := singleton.NewRegistry()
	widgetActions := map[string]service.WidgetAction{
		"Ask AI":         nil,
		"Quick Terminal": nil,
		"Review": func(ctx context.Context) error {
			return threadSvc.LoadThreads(ctx)
		},
		"Quick Notes": nil,
		"Advanced":    nil,
	}
	widgetSvc := service.NewWidgetService(cfg.Widget, registry, store, widgetActions)

	sock := socket.NewManager(cfg.Socket, cfg.Server.BaseURL)

	// 会话列表里找不到的发送者退回 ID 展示
	displayName := func(userID string) string {
		for _, t := range threadSvc.Threads() {
			if t.Peer != nil && t.Peer.ID == userID {
				return t.Peer.DisplayName()
			}
		}
		return ""
	}

	sock.Subscribe(consts.EventMessageNew, func(data json.RawMessage) {
		var msg dto.MessageDTO
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn("message:new 负载解析失败", "err", err)
			return
		}
		convSvc.HandleIncoming(&msg)
		threadSvc.ApplyMessage(&msg)
		if uid := sessionSvc.UserID(); uid == "" || msg.SenderID != uid {
			notifySvc.OnMessage(&msg, displayName(msg.SenderID))
		}
	})

	sock.Subscribe(consts.EventPresenceUpdate, func(data json.RawMessage) {
		var p dto.PresenceUpdateDTO
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn("presence:update 负载解析失败", "err", err)
			return
		}
		threadSvc.SetOnline(p.UserID, p.Online)
		notifySvc.OnPresence(&p, displayName(p.UserID))
	})

	connect := func(ctx context.Context) {
		token := sessionSvc.Token()
		if token == "" {
			return
		}
		if conn := sock.Connect(token); conn == nil {
			notifySvc.SetConnected(false)
			return
		}
		notifySvc.SetConnected(true)
		if uid := sessionSvc.UserID(); uid != "" {
			if err := sock.Emit(consts.EventNotificationsJoin, dto.NotificationsJoinDTO{UserID: uid}); err != nil {
				log.Warn("通知房间加入失败", "err", err)
			}
		}
	}

	handlers := &api.HandlersGroup{
		SessionHandler:   handler.NewSessionHandler(sessionSvc, connect),
		MessageHandler:   handler.NewMessageHandler(threadSvc, convSvc),
		NotifyHandler:    handler.NewNotifyHandler(notifySvc),
		WidgetHandler:    handler.NewWidgetHandler(widgetSvc),
		AssistantHandler: handler.NewAssistantHandler(assistantSvc),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewTokenWatchJob(sessionSvc, sock, notifySvc),
		job.NewThreadRefreshJob(sessionSvc, threadSvc),
	)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
		Socket:  sock,
		Session: sessionSvc,
		Threads: threadSvc,
		Notify:  notifySvc,
		Connect: connect,
	}, nil
}
