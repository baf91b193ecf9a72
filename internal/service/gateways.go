package service

import (
	"Skillmint/internal/api/dto"
	"context"
)

// MessageGateway 消息相关的后端调用面
type MessageGateway interface {
	Threads(ctx context.Context) ([]*dto.ThreadDTO, error)
	Conversation(ctx context.Context, peerID, cursor string, limit int) ([]*dto.MessageDTO, string, error)
	Send(ctx context.Context, to, content string) (*dto.MessageDTO, error)
}

// UserGateway 用户资料相关的后端调用面
type UserGateway interface {
	UserByID(ctx context.Context, id string) (*dto.PeerDTO, error)
	Me(ctx context.Context) (*dto.PeerDTO, error)
}

// StateStore 本地持久化状态（悬浮球位置、登录凭据）
type StateStore interface {
	Get(key string, v any) bool
	Set(key string, v any) error
	Delete(key string) error
}
