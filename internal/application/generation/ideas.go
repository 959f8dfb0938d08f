package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"z-novel-studio/internal/application/classifier"
)

var listPrefix = regexp.MustCompile(`^(?:[-*•]\s+|\d+[.)、]\s*|[（(]\d+[)）]\s*)`)

// NormalizeIdeas 将任意形状的 ideas 统一为字符串列表
func NormalizeIdeas(v any) []string {
	out := make([]string, 0)
	for _, idea := range normalizeIdeas(v) {
		idea = strings.TrimSpace(classifier.Strip(idea))
		if idea != "" {
			out = append(out, idea)
		}
	}
	return out
}

func normalizeIdeas(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return splitIdeaLines(x)
	case []string:
		return x
	case []any:
		ideas := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				ideas = append(ideas, s)
				continue
			}
			ideas = append(ideas, stringify(item))
		}
		return ideas
	case map[string]any:
		if inner, ok := x["ideas"]; ok {
			return normalizeIdeas(inner)
		}
		return []string{stringify(x)}
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(x, &decoded); err != nil {
			return splitIdeaLines(string(x))
		}
		return normalizeIdeas(decoded)
	default:
		return []string{stringify(x)}
	}
}

func splitIdeaLines(s string) []string {
	s = classifier.Strip(s)
	lines := strings.Split(s, "\n")
	ideas := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listPrefix.ReplaceAllString(line, ""))
		if line != "" {
			ideas = append(ideas, line)
		}
	}
	return ideas
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// ideasMarked ideas 中是否带有模拟标记
func ideasMarked(v any) bool {
	switch x := v.(type) {
	case string:
		return classifier.IsSimulated(x)
	case []string:
		for _, s := range x {
			if classifier.IsSimulated(s) {
				return true
			}
		}
	case []any:
		for _, item := range x {
			if ideasMarked(item) {
				return true
			}
		}
	case map[string]any:
		if inner, ok := x["ideas"]; ok {
			return ideasMarked(inner)
		}
	}
	return false
}
