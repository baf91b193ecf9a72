package rest

import (
	"Skillmint/internal/api/dto"
	"context"
	"strings"

	"github.com/pkg/errors"
)

// userPayload 后端用户资料的两种历史形态
type userPayload struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	Name     string `json:"name"`
	Fullname *struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
	} `json:"fullname"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	IsOnline bool   `json:"isOnline"`
}

func (u *userPayload) toPeer() *dto.PeerDTO {
	id := u.ID
	if id == "" {
		id = u.AltID
	}

	name := u.Name
	if name == "" && u.Fullname != nil {
		name = strings.TrimSpace(u.Fullname.Firstname + " " + u.Fullname.Lastname)
	}
	if name == "" {
		name = u.Email
	}

	return &dto.PeerDTO{
		ID:       id,
		Name:     name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
	}
}

// UserByID 深链打开会话时解析 peer 资料
func (s *Client) UserByID(ctx context.Context, id string) (*dto.PeerDTO, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/user/" + id)
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var u userPayload
	if err := unwrap(resp.Body(), &u); err != nil {
		return nil, err
	}
	peer := u.toPeer()
	if peer.ID == "" {
		return nil, errors.New("user payload missing id")
	}
	return peer, nil
}

// mePayload /user/me 在外层再包一层 user
type mePayload struct {
	User *userPayload `json:"user"`
}

// Me 解析当前登录用户资料
func (s *Client) Me(ctx context.Context) (*dto.PeerDTO, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/user/me")
	if err != nil {
		return nil, errors.Wrap(err, "get me")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var me mePayload
	if err := unwrap(resp.Body(), &me); err != nil || me.User == nil {
		// 部分版本直接返回用户对象
		var u userPayload
		if err2 := unwrap(resp.Body(), &u); err2 == nil && (u.ID != "" || u.AltID != "") {
			return u.toPeer(), nil
		}
		if err != nil {
			return nil, err
		}
		return nil, errors.New("me payload missing user")
	}
	return me.User.toPeer(), nil
}
