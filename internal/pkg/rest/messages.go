package rest

import (
	"Skillmint/internal/api/dto"
	"context"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Threads 拉取会话列表
func (s *Client) Threads(ctx context.Context) ([]*dto.ThreadDTO, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/messages/threads")
	if err != nil {
		return nil, errors.Wrap(err, "get threads")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var threads []*dto.ThreadDTO
	if err := unwrap(resp.Body(), &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// conversationPage 历史分页响应
type conversationPage struct {
	Messages   []*dto.MessageDTO `json:"messages"`
	NextCursor string            `json:"nextCursor"`
}

// Conversation 拉取与 peer 的历史消息；cursor 为空表示最近一页
func (s *Client) Conversation(ctx context.Context, peerID, cursor string, limit int) ([]*dto.MessageDTO, string, error) {
	req := s.http.R().SetContext(ctx)
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/messages/" + peerID)
	if err != nil {
		return nil, "", errors.Wrap(err, "get conversation")
	}
	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}

	var page conversationPage
	if err := unwrap(resp.Body(), &page); err != nil || page.Messages == nil {
		// 旧版后端直接返回数组
		var bare []*dto.MessageDTO
		if err2 := json.Unmarshal(resp.Body(), &bare); err2 == nil {
			return bare, "", nil
		}
		if err != nil {
			return nil, "", err
		}
	}
	return page.Messages, page.NextCursor, nil
}

// Send 发送消息，返回服务端确认后的记录
func (s *Client) Send(ctx context.Context, to, content string) (*dto.MessageDTO, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(&dto.SendMessageReq{To: to, Content: content}).
		Post("/api/messages")
	if err != nil {
		return nil, errors.Wrap(err, "send message")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var msg dto.MessageDTO
	if err := unwrap(resp.Body(), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
