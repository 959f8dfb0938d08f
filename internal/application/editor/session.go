// Package editor 管理章节草稿的编辑会话：撤销历史、生成结果合并、资料插入和文档统计
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"z-novel-studio/internal/application/classifier"
	"z-novel-studio/internal/domain/entity"
)

// ApplyMode 生成结果写入方式
type ApplyMode string

const (
	ApplyReplace ApplyMode = "replace"
	ApplyAppend  ApplyMode = "append"
)

// AppendSeparator 追加模式下的分隔
const AppendSeparator = "\n\n"

// ModeForOperation generate/improve 覆盖，continue 追加
func ModeForOperation(op entity.OperationKind) (ApplyMode, error) {
	switch op {
	case entity.OperationGenerate, entity.OperationImprove:
		return ApplyReplace, nil
	case entity.OperationContinue:
		return ApplyAppend, nil
	case entity.OperationIdeas:
		return "", ErrNotApplicable
	default:
		return "", fmt.Errorf("%w: %s", ErrNotApplicable, op)
	}
}

// Ticket 发起生成时捕获，用于丢弃过期结果
type Ticket struct {
	SessionID string `json:"sessionId"`
	Epoch     uint64 `json:"epoch"`
}

// Snapshot 会话对外视图
type Snapshot struct {
	SessionID     string               `json:"sessionId"`
	Epoch         uint64               `json:"epoch"`
	Draft         entity.ChapterDraft  `json:"draft"`
	Stats         entity.DocumentStats `json:"stats"`
	CanUndo       bool                 `json:"canUndo"`
	CanRedo       bool                 `json:"canRedo"`
	HistoryLen    int                  `json:"historyLength"`
	HistoryCursor int                  `json:"historyCursor"`
	Dirty         bool                 `json:"dirty"`
}

// Session 一个编辑会话独占一份草稿和一份历史
type Session struct {
	mu         sync.Mutex
	id         string
	epoch      uint64
	closed     bool
	draft      entity.ChapterDraft
	history    *EditHistory
	lastAccess time.Time
	now        func() time.Time
}

func newSession(id string, draft entity.ChapterDraft, historyLimit int, now func() time.Time) *Session {
	s := &Session{
		id:      id,
		draft:   draft,
		history: NewEditHistory(historyLimit),
		now:     now,
	}
	s.history.Push(draft.Content)
	s.lastAccess = now()
	return s
}

// ID 会话 ID
func (s *Session) ID() string {
	return s.id
}

// Ticket 当前草稿的票据
func (s *Session) Ticket() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{SessionID: s.id, Epoch: s.epoch}
}

// Snapshot 当前状态
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	current, _ := s.history.Current()
	return Snapshot{
		SessionID:     s.id,
		Epoch:         s.epoch,
		Draft:         s.draft,
		Stats:         ComputeStats(s.draft.Content),
		CanUndo:       s.history.CanUndo() || current != s.draft.Content,
		CanRedo:       s.history.CanRedo() && current == s.draft.Content,
		HistoryLen:    s.history.Len(),
		HistoryCursor: s.history.Cursor(),
		Dirty:         current != s.draft.Content,
	}
}

// Stats 当前内容的统计
func (s *Session) Stats() entity.DocumentStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.draft.Content)
}

// SetContent 用户输入，不写历史
func (s *Session) SetContent(content string) error {
	return s.mutate(func() error {
		s.draft.Content = content
		return nil
	})
}

// Commit 将当前内容记入历史
func (s *Session) Commit() (bool, error) {
	var pushed bool
	err := s.mutate(func() error {
		pushed = s.history.Push(s.draft.Content)
		return nil
	})
	return pushed, err
}

// Undo 回退一步，未提交的输入先入历史以便重做
func (s *Session) Undo() (bool, error) {
	var moved bool
	err := s.mutate(func() error {
		s.history.Push(s.draft.Content)
		if content, ok := s.history.Undo(); ok {
			s.draft.Content = content
			moved = true
		}
		return nil
	})
	return moved, err
}

// Redo 前进一步，有未提交的输入时不做任何事
func (s *Session) Redo() (bool, error) {
	var moved bool
	err := s.mutate(func() error {
		if current, _ := s.history.Current(); current != s.draft.Content {
			return nil
		}
		if content, ok := s.history.Redo(); ok {
			s.draft.Content = content
			moved = true
		}
		return nil
	})
	return moved, err
}

// ApplyGenerationResult 写入生成结果并提交
// 票据过期或结果为空时草稿保持不变
// 会话关闭后到达的结果同样视为过期
func (s *Session) ApplyGenerationResult(ticket Ticket, result *entity.GenerationResult, mode ApplyMode) error {
	err := s.mutate(func() error {
		if ticket.SessionID != s.id || ticket.Epoch != s.epoch {
			return ErrStaleResult
		}
		if result == nil {
			return ErrEmptyResult
		}
		content := classifier.Strip(result.Content)
		if strings.TrimSpace(content) == "" {
			return ErrEmptyResult
		}

		var next string
		switch mode {
		case ApplyReplace:
			next = content
		case ApplyAppend:
			if s.draft.Content == "" {
				next = content
			} else {
				next = s.draft.Content + AppendSeparator + content
			}
		default:
			return fmt.Errorf("unknown apply mode %q", mode)
		}

		s.history.Push(s.draft.Content)
		s.draft.Content = next
		s.history.Push(next)
		return nil
	})
	if errors.Is(err, ErrSessionClosed) {
		return ErrStaleResult
	}
	return err
}

// InsertReference 在 rune 偏移处插入资料块并提交
func (s *Session) InsertReference(ref *entity.WorldbuildingReference, offset int) error {
	block, err := FormatReference(ref)
	if err != nil {
		return err
	}
	return s.mutate(func() error {
		s.history.Push(s.draft.Content)
		s.draft.Content = spliceAt(s.draft.Content, block, offset)
		s.history.Push(s.draft.Content)
		return nil
	})
}

// Reload 替换草稿，重置历史，旧票据失效
func (s *Session) Reload(draft entity.ChapterDraft) error {
	return s.mutate(func() error {
		s.epoch++
		s.draft = draft
		s.history.Reset()
		s.history.Push(draft.Content)
		return nil
	})
}

// Close 销毁草稿，之后的操作都返回 ErrSessionClosed
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.epoch++
	s.draft = entity.ChapterDraft{}
	s.history.Reset()
}

// touch 记录一次访问，只读请求同样让会话保持活跃
func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = s.now()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastAccess)
}

func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastAccess = s.now()
	return fn()
}
