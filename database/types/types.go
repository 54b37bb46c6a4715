package types

// 全局注册切片
var Types = []interface{}{
	// Chat
	ChatMessage{},

	// Stats
	RequestLog{},
}
