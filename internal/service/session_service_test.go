package service

import (
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "me"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	assert.NoError(t, err)
	return token
}

func TestBootstrapRestoresSession(t *testing.T) {
	store := newMemStore()
	assert.NoError(t, store.Set(consts.StorageAuthTokenKey, signedToken(t, time.Now().Add(time.Hour))))

	users := &fakeUserGateway{me: &dto.PeerDTO{ID: "me", Name: "Alice", Email: "a@b.c"}}
	svc := NewSessionService(store, users)

	assert.NoError(t, svc.Bootstrap(context.Background()))
	assert.Equal(t, "me", svc.UserID())
	assert.Equal(t, "Alice", svc.Current().Name)
	assert.True(t, svc.TokenValid())
}

func TestBootstrapWithoutTokenFails(t *testing.T) {
	svc := NewSessionService(newMemStore(), &fakeUserGateway{})
	assert.ErrorIs(t, svc.Bootstrap(context.Background()), ErrSessionMissing)
	assert.Nil(t, svc.Current())
}

func TestBootstrapRejectedByBackend(t *testing.T) {
	store := newMemStore()
	assert.NoError(t, store.Set(consts.StorageAuthTokenKey, signedToken(t, time.Now().Add(time.Hour))))

	svc := NewSessionService(store, &fakeUserGateway{})
	assert.ErrorIs(t, svc.Bootstrap(context.Background()), ErrSessionMissing)
}

func TestTokenValidity(t *testing.T) {
	store := newMemStore()
	users := &fakeUserGateway{me: &dto.PeerDTO{ID: "me"}}
	svc := NewSessionService(store, users)

	assert.False(t, svc.TokenValid())

	assert.NoError(t, svc.SetToken(context.Background(), signedToken(t, time.Now().Add(-time.Minute))))
	assert.False(t, svc.TokenValid())

	assert.NoError(t, svc.SetToken(context.Background(), signedToken(t, time.Now().Add(time.Hour))))
	assert.True(t, svc.TokenValid())

	// 解析不出过期时间的凭据交给后端判定
	assert.NoError(t, svc.SetToken(context.Background(), signedToken(t, time.Time{})))
	assert.True(t, svc.TokenValid())
}

func TestClearRemovesCredentials(t *testing.T) {
	store := newMemStore()
	users := &fakeUserGateway{me: &dto.PeerDTO{ID: "me"}}
	svc := NewSessionService(store, users)
	assert.NoError(t, svc.SetToken(context.Background(), signedToken(t, time.Now().Add(time.Hour))))

	svc.Clear()
	assert.Empty(t, svc.Token())
	assert.Nil(t, svc.Current())

	var leftover string
	assert.False(t, store.Get(consts.StorageAuthTokenKey, &leftover))
}
