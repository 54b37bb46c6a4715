package config

import (
	"os"
	"strconv"
)

// Env 环境变量配置
type Env struct {
	Port                 string
	EnableWeb            bool
	WebDir               string
	EnableFrontendUpdate bool
	DBType               string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPass               string
	DBName               string
	DBSSLMode            string // PostgreSQL SSL 模式
	DBTLSConfig          string // MySQL TLS 配置
	OpenAIBaseURL        string // OpenAI API 基础地址
	OpenAITimeoutMS      int    // 上游请求超时（毫秒）
	AdminUser            string // 登录用户名
	AdminPass            string // 登录密码
	SessionTTLMin        int    // 会话有效期（分钟）
	GitHubProxy          string // GitHub 代理地址
	LogLevel             string // 日志输出等级
	UserAgent            string // 上游请求 User-Agent
}

// LoadEnv 从环境变量加载配置
func LoadEnv() *Env {
	return &Env{
		Port:                 getEnvOrDefault("PORT", ":3000"),
		EnableWeb:            getEnvOrDefault("ENABLE_WEB", "true") == "true",
		WebDir:               getEnvOrDefault("WEB_DIR", "web"),
		EnableFrontendUpdate: getEnvOrDefault("ENABLE_FRONTEND_UPDATE", "true") == "true",
		DBType:               getEnvOrDefault("DB_TYPE", "sqlite"),
		DBHost:               getEnvOrDefault("DB_HOST", ""),
		DBPort:               getEnvOrDefault("DB_PORT", ""),
		DBUser:               getEnvOrDefault("DB_USER", ""),
		DBPass:               getEnvOrDefault("DB_PASS", ""),
		DBName:               getEnvOrDefault("DB_NAME", ""),
		DBSSLMode:            getEnvOrDefault("DB_SSL_MODE", ""),
		DBTLSConfig:          getEnvOrDefault("DB_TLS_CONFIG", ""),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAITimeoutMS:      getEnvIntOrDefault("OPENAI_TIMEOUT_MS", 60000),
		AdminUser:            getEnvOrDefault("ADMIN_USER", "admin"),
		AdminPass:            getEnvOrDefault("ADMIN_PASS", "admin"),
		SessionTTLMin:        getEnvIntOrDefault("SESSION_TTL_MIN", 720),
		GitHubProxy:          getEnvOrDefault("GITHUB_PROXY", ""),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "INFO"),
		UserAgent:            getEnvOrDefault("USER_AGENT", ""),
	}
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault 获取整型环境变量，解析失败或不存在则返回默认值
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
