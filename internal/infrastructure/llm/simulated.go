package llm

import (
	"fmt"
	"strings"

	"z-novel-studio/internal/application/classifier"
	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

// simulatedResponse 缺少凭据时生成的占位结果，带模拟标记
func simulatedResponse(providerID string, settings config.ProviderSettings, call generation.TransportCall) *generation.RawResponse {
	header := []string{
		"provider: " + providerID,
		"operation: " + string(call.Operation),
		"reason: no API key configured for this provider",
	}
	label := settings.DisplayName + " (simulated)"
	p := call.Payload

	raw := &generation.RawResponse{
		ProviderLabel: label,
		Model:         call.Provider.ModelID,
		Simulated:     true,
	}

	switch call.Operation {
	case entity.OperationGenerate:
		title := p.ChapterTitle
		if title == "" {
			title = "Untitled"
		}
		body := fmt.Sprintf("Chapter %s: %s\n\nThis is a placeholder chapter. Configure an API key for %s to generate real content.",
			p.ChapterNumber, title, settings.DisplayName)
		if strings.TrimSpace(p.UserPrompt) != "" {
			body += "\n\nRequested direction: " + strings.TrimSpace(p.UserPrompt)
		}
		raw.Content = classifier.FormatSimulated(header, body)
	case entity.OperationImprove:
		// 原文原样返回，避免占位文本覆盖用户内容
		raw.Content = classifier.FormatSimulated(header, p.Content)
	case entity.OperationContinue:
		raw.Content = classifier.FormatSimulated(header,
			"The story continues here once a generation provider is configured.")
	case entity.OperationIdeas:
		raw.Ideas = classifier.FormatSimulated(header, strings.Join([]string{
			"- Introduce an unexpected ally",
			"- Reveal a secret from the protagonist's past",
			"- Raise the stakes with a looming deadline",
		}, "\n"))
	}
	return raw
}
