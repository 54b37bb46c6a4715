package config

import (
	"flag"
)

// Config 应用配置
type Config struct {
	// 服务器配置
	Port string

	// 前端配置
	EnableWeb            bool
	WebDir               string
	EnableFrontendUpdate bool

	// 数据库配置
	DBType      string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	DBSSLMode   string
	DBTLSConfig string

	// OpenAI 上游配置
	OpenAIBaseURL   string
	OpenAITimeoutMS int

	// 登录凭证配置
	AdminUser string
	AdminPass string

	// 会话配置
	SessionTTLMin int

	// GitHub 代理配置
	GitHubProxy string

	// 日志配置
	LogLevel string

	// User-Agent 配置
	UserAgent string
}

// LoadConfig 加载配置
func LoadConfig() *Config {
	// 从环境变量加载默认值
	env := LoadEnv()

	cfg := &Config{
		Port:                 env.Port,
		EnableWeb:            env.EnableWeb,
		WebDir:               env.WebDir,
		EnableFrontendUpdate: env.EnableFrontendUpdate,
		DBType:               env.DBType,
		DBHost:               env.DBHost,
		DBPort:               env.DBPort,
		DBUser:               env.DBUser,
		DBPass:               env.DBPass,
		DBName:               env.DBName,
		DBSSLMode:            env.DBSSLMode,
		DBTLSConfig:          env.DBTLSConfig,
		OpenAIBaseURL:        env.OpenAIBaseURL,
		OpenAITimeoutMS:      env.OpenAITimeoutMS,
		AdminUser:            env.AdminUser,
		AdminPass:            env.AdminPass,
		SessionTTLMin:        env.SessionTTLMin,
		GitHubProxy:          env.GitHubProxy,
		LogLevel:             env.LogLevel,
		UserAgent:            env.UserAgent,
	}

	// 从命令行参数加载配置
	cfg.loadFlags()

	return cfg
}

// loadFlags 从命令行参数加载配置
func (c *Config) loadFlags() {
	flag.StringVar(&c.Port, "port", c.Port, "监听端口")

	// 前端相关参数
	flag.BoolVar(&c.EnableWeb, "enable-web", c.EnableWeb, "启用前端支持")
	flag.StringVar(&c.WebDir, "web-dir", c.WebDir, "前端文件目录")
	flag.BoolVar(&c.EnableFrontendUpdate, "enable-frontend-update", c.EnableFrontendUpdate, "启用前端更新检查")

	// 数据库相关参数
	flag.StringVar(&c.DBType, "db-type", c.DBType, "数据库类型 (sqlite, mysql, postgres)")
	flag.StringVar(&c.DBHost, "db-host", c.DBHost, "数据库主机地址")
	flag.StringVar(&c.DBPort, "db-port", c.DBPort, "数据库端口")
	flag.StringVar(&c.DBUser, "db-user", c.DBUser, "数据库用户名")
	flag.StringVar(&c.DBPass, "db-pass", c.DBPass, "数据库密码")
	flag.StringVar(&c.DBName, "db-name", c.DBName, "数据库名称")
	flag.StringVar(&c.DBSSLMode, "db-ssl-mode", c.DBSSLMode, "PostgreSQL SSL 模式 (disable, require, verify-ca, verify-full)")
	flag.StringVar(&c.DBTLSConfig, "db-tls-config", c.DBTLSConfig, "MySQL TLS 配置 (true, false, skip-verify, preferred)")

	// OpenAI 上游相关参数
	flag.StringVar(&c.OpenAIBaseURL, "openai-base-url", c.OpenAIBaseURL, "OpenAI API 基础地址")
	flag.IntVar(&c.OpenAITimeoutMS, "openai-timeout-ms", c.OpenAITimeoutMS, "上游请求超时（毫秒）")

	// 登录凭证参数
	flag.StringVar(&c.AdminUser, "admin-user", c.AdminUser, "登录用户名")
	flag.StringVar(&c.AdminPass, "admin-pass", c.AdminPass, "登录密码")

	// 会话参数
	flag.IntVar(&c.SessionTTLMin, "session-ttl-min", c.SessionTTLMin, "会话有效期（分钟）")

	// GitHub 代理参数
	flag.StringVar(&c.GitHubProxy, "github-proxy", c.GitHubProxy, "GitHub 代理地址，用于加速 GitHub 访问")

	// 日志等级参数
	flag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "日志输出等级 (DEBUG, INFO, WARN, ERROR)")

	// User-Agent 参数
	flag.StringVar(&c.UserAgent, "user-agent", c.UserAgent, "上游请求使用的 User-Agent，留空则使用 Go 默认值")

	flag.Parse()
}
