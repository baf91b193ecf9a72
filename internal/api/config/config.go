package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// setDefaults 内置缺省值，缺省即可本地跑通
func setDefaults() {
	viper.SetDefault("server.base_url", "http://localhost:4000")
	viper.SetDefault("server.timeout", 15)
	viper.SetDefault("bridge.port", 5180)
	viper.SetDefault("socket.retry_attempts", 10)
	viper.SetDefault("socket.retry_delay_ms", 500)
	viper.SetDefault("chat.page_size", 30)
	viper.SetDefault("notify.feed_cap", 50)
	viper.SetDefault("widget.sphere_size", 50)
	viper.SetDefault("widget.chip_size", 60)
	viper.SetDefault("widget.radius", 90)
	viper.SetDefault("widget.margin", 8)
	viper.SetDefault("widget.drag_threshold", 6)
	viper.SetDefault("widget.initial_x", 24)
	viper.SetDefault("widget.initial_y", 100)
	viper.SetDefault("widget.viewport_w", 1280)
	viper.SetDefault("widget.viewport_h", 800)
	viper.SetDefault("widget.storage_key", "sphereQuadMenu:pos")
	viper.SetDefault("storage.path", "./skillmint_state.json")
}
