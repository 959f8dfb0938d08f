// Package classifier 识别并剥离模拟响应标记
//
// 模拟响应以 SimulatedMarker 开头，随后是一段头部，头部到第一个空行结束。
// 剥离时头部连同空行一起去掉。
package classifier

import "strings"

// SimulatedMarker 后端与核心共享的模拟响应标记
const SimulatedMarker = "[[SIMULATED_RESPONSE]]"

const bom = "\ufeff"

// Classify 返回清理后的内容以及是否为模拟响应
func Classify(raw string) (string, bool) {
	clean, n := strip(raw)
	if n == 0 {
		return raw, false
	}
	return clean, true
}

// Strip 去掉所有前导标记块，幂等
func Strip(raw string) string {
	clean, _ := strip(raw)
	return clean
}

// IsSimulated 是否以标记开头
func IsSimulated(raw string) bool {
	_, ok := markerOffset(raw)
	return ok
}

// FormatSimulated 构造带标记的模拟响应
func FormatSimulated(header []string, body string) string {
	var b strings.Builder
	b.WriteString(SimulatedMarker)
	b.WriteByte('\n')
	for _, line := range header {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String()
}

func strip(raw string) (string, int) {
	n := 0
	for {
		off, ok := markerOffset(raw)
		if !ok {
			return raw, n
		}
		raw = dropHeader(raw[off+len(SimulatedMarker):])
		n++
	}
}

// markerOffset 跳过前导空白和 BOM 后查找标记
func markerOffset(raw string) (int, bool) {
	trimmed := strings.TrimLeft(raw, " \t\r\n"+bom)
	if !strings.HasPrefix(trimmed, SimulatedMarker) {
		return 0, false
	}
	return len(raw) - len(trimmed), true
}

// dropHeader 删除到第一个空行（含）为止的内容，没有空行时整段都是头部
func dropHeader(rest string) string {
	lines := strings.SplitAfter(rest, "\n")
	consumed := 0
	// 第一行是标记所在行的剩余部分
	for i, line := range lines {
		consumed += len(line)
		if i > 0 && strings.TrimSpace(line) == "" && strings.HasSuffix(line, "\n") {
			return rest[consumed:]
		}
	}
	return ""
}
