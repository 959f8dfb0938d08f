package entity

import "strings"

// 阅读主题
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeSepia = "sepia"
)

// ReaderPreferences 阅读/编辑偏好，整条记录读写
type ReaderPreferences struct {
	FontSize         int     `json:"fontSize"`
	FontFamily       string  `json:"fontFamily"`
	LineHeight       float64 `json:"lineHeight"`
	Theme            string  `json:"theme"`
	MaxWidth         int     `json:"maxWidth"`
	ParagraphSpacing float64 `json:"paragraphSpacing"`
	JustifyText      bool    `json:"justifyText"`
	ShowProgress     bool    `json:"showProgress"`
	AutoAdvance      bool    `json:"autoAdvance"`
}

// DefaultReaderPreferences 内置默认值
func DefaultReaderPreferences() ReaderPreferences {
	return ReaderPreferences{
		FontSize:         18,
		FontFamily:       "serif",
		LineHeight:       1.8,
		Theme:            ThemeLight,
		MaxWidth:         800,
		ParagraphSpacing: 1.5,
		JustifyText:      false,
		ShowProgress:     true,
		AutoAdvance:      false,
	}
}

// Validate 校验取值范围
func (p ReaderPreferences) Validate() error {
	switch {
	case p.FontSize < 10 || p.FontSize > 40:
		return &ValidationError{Field: "fontSize", Reason: "must be between 10 and 40"}
	case strings.TrimSpace(p.FontFamily) == "":
		return &ValidationError{Field: "fontFamily"}
	case p.LineHeight < 1.0 || p.LineHeight > 3.0:
		return &ValidationError{Field: "lineHeight", Reason: "must be between 1.0 and 3.0"}
	case !ValidTheme(p.Theme):
		return &ValidationError{Field: "theme", Reason: "must be one of light, dark, sepia"}
	case p.MaxWidth < 400 || p.MaxWidth > 1600:
		return &ValidationError{Field: "maxWidth", Reason: "must be between 400 and 1600"}
	case p.ParagraphSpacing < 0 || p.ParagraphSpacing > 4:
		return &ValidationError{Field: "paragraphSpacing", Reason: "must be between 0 and 4"}
	}
	return nil
}

// ValidTheme 主题是否合法
func ValidTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSepia:
		return true
	}
	return false
}
