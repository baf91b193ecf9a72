package consts

// 与后端约定的 Socket 事件名
const (
	EventMessageNew        = "message:new"
	EventPresenceUpdate    = "presence:update"
	EventNotificationsJoin = "notifications:join"
)

// 本地持久化键
const (
	StorageAuthTokenKey = "auth:token"
	StorageWidgetPosKey = "sphereQuadMenu:pos"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
