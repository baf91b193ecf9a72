package dto

// PeerDTO 单聊对手方
type PeerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	IsOnline bool   `json:"isOnline"`
}

// DisplayName 列表展示名，name 为空时回退到 email
func (p *PeerDTO) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return "User"
}

// LastMessageDTO 会话列表中的最近一条消息预览
type LastMessageDTO struct {
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"createdAt"`
}

// ThreadDTO 会话列表项
type ThreadDTO struct {
	Peer        *PeerDTO        `json:"peer"`
	LastMessage *LastMessageDTO `json:"lastMessage,omitempty"`
	UnreadCount int             `json:"unreadCount"`
}

// SelectThreadReq 选择会话请求体
type SelectThreadReq struct {
	PeerID string `json:"peer_id" binding:"required"`
}
