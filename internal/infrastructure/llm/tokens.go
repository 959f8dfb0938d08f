package llm

import (
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/pkoukk/tiktoken-go"

	"z-novel-studio/internal/domain/entity"
)

const fallbackEncoding = "cl100k_base"

var (
	encodersMu sync.Mutex
	encoders   = map[string]*tiktoken.Tiktoken{}
)

// encoderFor 按模型取编码器，未知模型使用 cl100k_base
func encoderFor(model string) *tiktoken.Tiktoken {
	encodersMu.Lock()
	defer encodersMu.Unlock()

	if enc, ok := encoders[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		// 编码表无法加载时缓存 nil，不再重试
		enc = nil
	}
	encoders[model] = enc
	return enc
}

// estimateUsage 驱动未返回用量时的估算
func estimateUsage(model string, prompt []*schema.Message, completion string) *entity.TokenUsage {
	enc := encoderFor(model)
	if enc == nil {
		return nil
	}
	promptTokens := 0
	for _, m := range prompt {
		promptTokens += len(enc.Encode(m.Content, nil, nil))
	}
	return &entity.TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: len(enc.Encode(completion, nil, nil)),
		Estimated:        true,
	}
}
