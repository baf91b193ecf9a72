package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Timestamp 兼容后端两种时间表示：ISO 字符串或毫秒/秒时间戳
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}

	epoch, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	// 13 位按毫秒处理
	if epoch > 1e12 {
		t.Time = time.UnixMilli(epoch)
	} else {
		t.Time = time.Unix(epoch, 0)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// MessageDTO 聊天消息
type MessageDTO struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  Timestamp `json:"createdAt"`
	IsMine     bool      `json:"isMine"` // 派生字段，由本地用户 ID 比对得出
}

// SendMessageReq 发送消息请求体；to 为空时发往当前活跃会话
type SendMessageReq struct {
	To      string `json:"to"`
	Content string `json:"content" binding:"required"`
}

// LoadOlderResult 向前翻页结果；Prepended 供视图还原滚动锚点
type LoadOlderResult struct {
	Prepended int  `json:"prepended"`
	HasOlder  bool `json:"hasOlder"`
}

// DayGroupDTO 渲染用的日期分组（派生视图，非权威排序）
type DayGroupDTO struct {
	Label    string        `json:"label"`
	Messages []*MessageDTO `json:"messages"`
}

// ConversationSnapshot 当前会话窗口的完整视图
type ConversationSnapshot struct {
	Peer     *PeerDTO       `json:"peer,omitempty"`
	State    string         `json:"state"`
	Messages []*MessageDTO  `json:"messages"`
	Groups   []*DayGroupDTO `json:"groups"`
	HasOlder bool           `json:"hasOlder"`
	Error    string         `json:"error,omitempty"`
}
