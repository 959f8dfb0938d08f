package editor

// EditHistory 线性撤销历史
// entries 只追加，cursor 指向当前条目，为 -1 表示空
// 在 cursor 不在末尾时 Push 会截断其后的重做分支
type EditHistory struct {
	entries []string
	cursor  int
	limit   int
}

// NewEditHistory 创建历史，limit <= 0 表示不限制条数
func NewEditHistory(limit int) *EditHistory {
	return &EditHistory{cursor: -1, limit: limit}
}

// Push 记录快照，与当前条目相同时不做任何事
func (h *EditHistory) Push(content string) bool {
	if h.cursor >= 0 && h.entries[h.cursor] == content {
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], content)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
	h.cursor = len(h.entries) - 1
	return true
}

// Undo 回退一步
func (h *EditHistory) Undo() (string, bool) {
	if !h.CanUndo() {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo 前进一步
func (h *EditHistory) Redo() (string, bool) {
	if !h.CanRedo() {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current 当前条目
func (h *EditHistory) Current() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	return h.entries[h.cursor], true
}

func (h *EditHistory) CanUndo() bool { return h.cursor > 0 }
func (h *EditHistory) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *EditHistory) Len() int      { return len(h.entries) }
func (h *EditHistory) Cursor() int   { return h.cursor }

// Reset 清空历史
func (h *EditHistory) Reset() {
	h.entries = nil
	h.cursor = -1
}
