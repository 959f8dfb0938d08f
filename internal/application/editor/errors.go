package editor

import "errors"

var (
	// ErrSessionNotFound 会话不存在或已关闭
	ErrSessionNotFound = errors.New("editing session not found")
	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("editing session closed")
	// ErrStaleResult 生成期间草稿已被替换或关闭
	ErrStaleResult = errors.New("generation result is stale for this draft")
	// ErrEmptyResult 结果清理后没有内容
	ErrEmptyResult = errors.New("generation result has no content")
	// ErrNotApplicable 该操作的结果不能写入草稿
	ErrNotApplicable = errors.New("operation result cannot be applied to a draft")
)
