package config

// Config 配置主体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Socket  SocketConfig  `mapstructure:"socket"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Widget  WidgetConfig  `mapstructure:"widget"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig 平台后端地址
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// BridgeConfig 本地桥接服务配置，供瘦 UI 访问
type BridgeConfig struct {
	Port int `mapstructure:"port"`
}

// SocketConfig Socket 通道配置
type SocketConfig struct {
	URL           string `mapstructure:"url"` // 为空时回退到 server.base_url 同源
	RetryAttempts int    `mapstructure:"retry_attempts"`
	RetryDelayMs  int    `mapstructure:"retry_delay_ms"`
}

// ChatConfig 会话窗口配置
type ChatConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// NotifyConfig 通知流配置
type NotifyConfig struct {
	FeedCap int `mapstructure:"feed_cap"`
}

// WidgetConfig 悬浮球配置
type WidgetConfig struct {
	SphereSize    float64 `mapstructure:"sphere_size"`
	ChipSize      float64 `mapstructure:"chip_size"`
	Radius        float64 `mapstructure:"radius"`
	Margin        float64 `mapstructure:"margin"`
	DragThreshold float64 `mapstructure:"drag_threshold"`
	InitialX      float64 `mapstructure:"initial_x"`
	InitialY      float64 `mapstructure:"initial_y"`
	ViewportW     float64 `mapstructure:"viewport_w"`
	ViewportH     float64 `mapstructure:"viewport_h"`
	StorageKey    string  `mapstructure:"storage_key"`
}

// StorageConfig 本地状态文件
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LLMConfig struct {
	URL        string `mapstructure:"url"`
	Model      string `mapstructure:"model"`
	ApiKey     string `mapstructure:"api_key"`
	PromptPath string `mapstructure:"prompt_path"`
}

// LogConfig 日志输出配置
type LogConfig struct {
	FilePath string `mapstructure:"file_path"`
}
