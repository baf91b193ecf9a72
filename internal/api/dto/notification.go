package dto

import "time"

const (
	NotificationKindPresence = "presence"
	NotificationKindMessage  = "message"
)

// NotificationDTO 通知流条目
type NotificationDTO struct {
	Kind string    `json:"kind"` // presence | message
	Text string    `json:"text"`
	Ts   time.Time `json:"ts"`
}

// PresenceUpdateDTO presence:update 事件负载
type PresenceUpdateDTO struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

// NotificationsJoinDTO notifications:join 事件负载
type NotificationsJoinDTO struct {
	UserID string `json:"userId"`
}

// NotifyStateDTO 通知面板状态
type NotifyStateDTO struct {
	Items     []*NotificationDTO `json:"items"`
	Unread    int                `json:"unread"`
	Connected bool               `json:"connected"`
}
