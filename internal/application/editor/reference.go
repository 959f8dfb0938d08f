package editor

import (
	"fmt"
	"strings"

	"z-novel-studio/internal/domain/entity"
)

// FormatReference 按资料类型生成插入块
func FormatReference(ref *entity.WorldbuildingReference) (string, error) {
	name := strings.TrimSpace(ref.Name)
	desc := strings.TrimSpace(ref.Description)

	var b strings.Builder
	switch ref.Kind {
	case entity.ReferenceCharacter:
		fmt.Fprintf(&b, "[Character] %s\n", name)
		writeLine(&b, desc)
	case entity.ReferenceWorld:
		fmt.Fprintf(&b, "[World] %s\n", name)
		writeLine(&b, desc)
	case entity.ReferenceMagic:
		fmt.Fprintf(&b, "[Magic System] %s\n", name)
		writeLine(&b, desc)
	case entity.ReferenceCultivation:
		fmt.Fprintf(&b, "[Cultivation System] %s\n", name)
		writeLine(&b, desc)
		if len(ref.Levels) > 0 {
			fmt.Fprintf(&b, "Levels: %s\n", strings.Join(ref.Levels, ", "))
		}
	default:
		return "", &entity.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown reference kind %q", ref.Kind)}
	}
	return b.String(), nil
}

func writeLine(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

// spliceAt 在 rune 偏移处插入，偏移越界时收敛到边界
func spliceAt(content, block string, offset int) string {
	runes := []rune(content)
	offset = max(0, min(offset, len(runes)))
	return string(runes[:offset]) + block + string(runes[offset:])
}
