package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid   = errors.New("参数错误")
	ErrSessionMissing = errors.New("尚未登录")
	ErrNoActivePeer   = errors.New("尚未选择会话")
	ErrPeerNotFound   = errors.New("用户不存在")
	ErrEmptyMessage   = errors.New("消息内容为空")
	ErrSendFailed     = errors.New("消息发送失败")
	ErrHistoryLoad    = errors.New("历史消息加载失败")
	ErrThreadsLoad    = errors.New("会话列表加载失败")
	ErrWidgetInactive = errors.New("悬浮球未激活")
	ErrWidgetNoAction = errors.New("未知的悬浮球按钮")
	ErrAssistantDown  = errors.New("AI助手不可用")
	UnExpectedError   = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:   BadRequest,
	ErrSessionMissing: Unauthorized,
	ErrNoActivePeer:   BadRequest,
	ErrPeerNotFound:   NotFound,
	ErrEmptyMessage:   BadRequest,
	ErrSendFailed:     InternalServerError,
	ErrHistoryLoad:    InternalServerError,
	ErrThreadsLoad:    InternalServerError,
	ErrWidgetInactive: BadRequest,
	ErrWidgetNoAction: NotFound,
	ErrAssistantDown:  InternalServerError,
	UnExpectedError:   InternalServerError,
}
