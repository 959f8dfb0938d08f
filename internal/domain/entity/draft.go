package entity

// ChapterDraft 编辑会话独占的章节草稿
type ChapterDraft struct {
	NovelID       string `json:"novelId,omitempty"`
	ChapterNumber string `json:"chapterNumber"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

// DocumentStats 文档统计，读取时计算
type DocumentStats struct {
	Words              int `json:"words"`
	Characters         int `json:"characters"`
	Paragraphs         int `json:"paragraphs"`
	ReadingTimeMinutes int `json:"readingTimeMinutes"`
}
