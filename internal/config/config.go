package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはクライアント側アプリ全体の設定
type Config struct {
	APIBaseURL  string        // バックエンドのベースURL
	StateDir    string        // token/user/cartの保存先（空ならXDG既定）
	HTTPTimeout time.Duration // 1リクエストの上限

	// stubserver用
	Port      string
	JWTSecret string
}

// Loadは環境変数から読む。必須はAPI_BASE_URLのみ。
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:  os.Getenv("API_BASE_URL"),
		StateDir:    os.Getenv("STATE_DIR"),
		HTTPTimeout: 15 * time.Second,
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}

	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return Config{}, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be a positive number")
		}
		cfg.HTTPTimeout = time.Duration(sec) * time.Second
	}

	return cfg, nil
}

// LoadStubはstubserver側の設定。こちらは全部に既定値がある。
func LoadStub() Config {
	return Config{
		Port:      getEnv("PORT", "5000"),
		JWTSecret: getEnv("JWT_SECRET", "dev_secret_change_me"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
