package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/pkg/logger"
	"z-novel-studio/pkg/metrics"
)

// Manager 进程内编辑会话表
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	ttl          time.Duration
	interval     time.Duration
	historyLimit int
	now          func() time.Time
}

// NewManager 创建会话管理器
func NewManager(cfg config.EditorConfig) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		ttl:          cfg.SessionTTL,
		interval:     cfg.SweepInterval,
		historyLimit: cfg.MaxHistory,
		now:          time.Now,
	}
}

// Open 打开新会话，初始内容作为第一条历史
func (m *Manager) Open(draft entity.ChapterDraft) *Session {
	s := newSession(uuid.NewString(), draft, m.historyLimit, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.OpenEditingSessions.Set(float64(n))
	return s
}

// Get 获取会话并刷新访问时间
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Close 关闭并移除会话
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	metrics.OpenEditingSessions.Set(float64(n))
	return nil
}

// Len 打开的会话数
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep 关闭空闲超过 TTL 的会话，返回关闭数量
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		metrics.OpenEditingSessions.Set(float64(n))
	}
	return len(expired)
}

// Run 周期清理空闲会话，直到 ctx 结束
func (m *Manager) Run(ctx context.Context) {
	if m.interval <= 0 || m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := m.Sweep(t); n > 0 {
				logger.Info(ctx, "swept idle editing sessions", "closed", n, "open", m.Len())
			}
		}
	}
}
