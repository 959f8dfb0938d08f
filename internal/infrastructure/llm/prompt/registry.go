// Package prompt 管理内嵌的生成提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"z-novel-studio/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type Registry struct {
	mu    sync.RWMutex
	cache map[entity.OperationKind]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[entity.OperationKind]einoprompt.ChatTemplate),
	}
}

// Render 渲染操作对应的系统和用户消息
func (r *Registry) Render(ctx context.Context, op entity.OperationKind, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := r.ChatTemplate(op)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("format %s prompt: %w", op, err)
	}
	return msgs, nil
}

func (r *Registry) ChatTemplate(op entity.OperationKind) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[op]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[op]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(op)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[op] = tpl
	return tpl, nil
}

func resolvePromptFiles(op entity.OperationKind) (systemFile string, userFile string, err error) {
	switch op {
	case entity.OperationGenerate:
		return "templates/chapter_generate.system.txt", "templates/chapter_generate.user.txt", nil
	case entity.OperationImprove:
		return "templates/content_improve.system.txt", "templates/content_improve.user.txt", nil
	case entity.OperationContinue:
		return "templates/text_continue.system.txt", "templates/text_continue.user.txt", nil
	case entity.OperationIdeas:
		return "templates/chapter_ideas.system.txt", "templates/chapter_ideas.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt operation: %s", op)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
