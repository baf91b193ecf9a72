package rest

import (
	"Skillmint/internal/api/config"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// TokenSource 提供当前的 Bearer 凭据；为空表示未登录
type TokenSource interface {
	Token() string
}

// TokenFunc 函数式 TokenSource 适配
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client 平台后端 REST 网关
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.ServerConfig, tokens TokenSource) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tokens != nil {
			if t := tokens.Token(); t != "" {
				req.SetHeader("Authorization", "Bearer "+t)
			}
		}
		return nil
	})

	return &Client{http: c}
}

// wrapped 后端的标准响应信封
type wrapped struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// unwrap 兼容两种响应形态：{code,message,data} 信封或裸负载。
// 业务失败时 data 常为 null，所以先看 code 再看 data。
func unwrap(body []byte, v any) error {
	var w wrapped
	if err := json.Unmarshal(body, &w); err == nil {
		if w.Code != nil && *w.Code != 200 {
			return errors.Errorf("backend error %d: %s", *w.Code, w.Message)
		}
		if w.Data != nil {
			return errors.Wrap(json.Unmarshal(w.Data, v), "decode data")
		}
		if w.Code != nil {
			// 成功信封但无负载
			return nil
		}
	}
	return errors.Wrap(json.Unmarshal(body, v), "decode body")
}

// checkStatus HTTP 层错误统一转换
func checkStatus(resp *resty.Response) error {
	if resp.IsError() {
		var w wrapped
		if err := json.Unmarshal(resp.Body(), &w); err == nil && w.Message != "" {
			return errors.New(w.Message)
		}
		return fmt.Errorf("backend status %d", resp.StatusCode())
	}
	return nil
}
