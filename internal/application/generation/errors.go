package generation

import (
	"errors"
	"fmt"
	"strings"

	"z-novel-studio/internal/domain/entity"
)

// DefaultFailureMessage 上游没有给出信息时的提示
const DefaultFailureMessage = "generation failed, please try again later"

// ErrEmptyContent 清理后内容为空
var ErrEmptyContent = errors.New("empty generation result")

// GenerationError 后端或传输失败，草稿不受影响
type GenerationError struct {
	Operation entity.OperationKind
	Message   string
	// Upstream 表示 Message 来自上游
	Upstream bool
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(op entity.OperationKind, err error) *GenerationError {
	ge := &GenerationError{Operation: op, Message: DefaultFailureMessage, Err: err}

	var te *TransportError
	if errors.As(err, &te) {
		if msg := strings.TrimSpace(te.Message); msg != "" {
			ge.Message = msg
			ge.Upstream = true
		}
	}
	return ge
}
