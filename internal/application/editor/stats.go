package editor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"z-novel-studio/internal/domain/entity"
)

// WordsPerMinute 阅读速度
const WordsPerMinute = 200

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// ComputeStats 从内容计算统计，不缓存
func ComputeStats(content string) entity.DocumentStats {
	words := len(strings.Fields(content))

	paragraphs := 0
	for _, seg := range paragraphBreak.Split(content, -1) {
		if strings.TrimSpace(seg) != "" {
			paragraphs++
		}
	}

	return entity.DocumentStats{
		Words:              words,
		Characters:         utf8.RuneCountInString(content),
		Paragraphs:         paragraphs,
		ReadingTimeMinutes: (words + WordsPerMinute - 1) / WordsPerMinute,
	}
}
