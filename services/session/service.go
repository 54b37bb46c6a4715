package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalsKey 会话在 fiber Locals 中的键名
const LocalsKey = "session"

// Session 表示一次登录会话
//
// 会话只存在于进程内存中，重启即失效。上游 API Key 与登录状态
// 一样属于会话数据，不做任何持久化。
type Session struct {
	Token     string    // 会话令牌（cookie 值）
	APIKey    string    // 用户提供的上游 API Key
	CreatedAt time.Time // 创建时间
	ExpiresAt time.Time // 过期时间
}

// Service 定义会话管理的服务接口
type Service interface {
	// Create 创建一个新的登录会话
	Create() *Session

	// Get 根据令牌查找会话，过期会话视为不存在
	Get(token string) (*Session, bool)

	// SetAPIKey 更新会话中保存的上游 API Key
	SetAPIKey(token, apiKey string) bool

	// Delete 删除指定会话（登出）
	Delete(token string)

	// Close 停止后台清理协程
	Close()
}

// service 是 Service 接口的具体实现
type service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	logger   *slog.Logger
}

// New 创建会话服务实例
//
// 参数：
//   - ttl: 会话有效期
//   - logger: 日志记录器实例
//
// 返回值：
//   - Service: 初始化后的会话服务实例
func New(ttl time.Duration, logger *slog.Logger) Service {
	s := &service{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
		logger:   logger,
	}

	// 启动后台清理协程，定期移除过期会话
	go s.cleanup()

	return s
}

// Create 创建一个新的登录会话
func (s *service) Create() *Session {
	now := time.Now()
	sess := &Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.logger.Info("创建登录会话", "expires_at", sess.ExpiresAt)

	copied := *sess
	return &copied
}

// Get 根据令牌查找会话
//
// 返回会话的副本，避免调用方绕过锁修改内部状态。
func (s *service) Get(token string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	// 过期会话视为不存在，由清理协程负责移除
	if time.Now().After(sess.ExpiresAt) {
		return nil, false
	}

	copied := *sess
	return &copied, true
}

// SetAPIKey 更新会话中保存的上游 API Key
func (s *service) SetAPIKey(token, apiKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return false
	}

	sess.APIKey = apiKey
	return true
}

// Delete 删除指定会话
func (s *service) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Close 停止后台清理协程
func (s *service) Close() {
	close(s.stop)
}

// cleanup 后台清理协程，定期移除过期会话
func (s *service) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
