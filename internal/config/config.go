package config

import (
	"os"
	"strconv"
	"strings"
)

// Config 应用配置
type Config struct {
	Port            string
	DBPath          string
	LinkBase        string
	LogLevel        string
	MaxUploadBytes  int64  // 上传文件大小上限（字节）
	UploadRateLimit int    // 每分钟上传次数上限
	BadgeTable      string // 徽章配置文件（JSON），为空时使用默认配置
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:            env("PORT", ":8080"),
		DBPath:          env("DB_PATH", "./data/ranks.db"),
		LinkBase:        env("ACTIVITY_LINK_BASE", "https://www.strava.com/activities/"),
		LogLevel:        strings.ToLower(env("LOG_LEVEL", "info")),
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_MB", 16)) * 1024 * 1024,
		UploadRateLimit: envInt("UPLOAD_RATE_LIMIT", 30),
		BadgeTable:      env("BADGE_TABLE", ""),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
