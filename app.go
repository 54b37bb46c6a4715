package main

import (
	"github.com/MeowSalty/aibox/config"
	"github.com/MeowSalty/aibox/server"
)

func main() {
	// 加载配置（环境变量 + 命令行参数）
	cfg := config.LoadConfig()

	// 启动服务器
	server.Run(cfg)
}
