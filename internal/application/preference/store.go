// Package preference 解析并保存阅读偏好
//
// 生效值按层解析：内置默认值，服务端默认值，用户保存的字段。
// 服务端默认值在构造时确定，之后不再改变。
package preference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
	"z-novel-studio/pkg/logger"
)

// ServerDefaults 服务端下发的默认值，nil 字段不覆盖
type ServerDefaults struct {
	AutoAdvance *bool
}

// Store 偏好存储
type Store struct {
	repo repository.PreferenceRepository
	base entity.ReaderPreferences
}

// NewStore 创建偏好存储
func NewStore(repo repository.PreferenceRepository, defaults ServerDefaults) *Store {
	base := entity.DefaultReaderPreferences()
	if defaults.AutoAdvance != nil {
		base.AutoAdvance = *defaults.AutoAdvance
	}
	return &Store{repo: repo, base: base}
}

// Defaults 未保存任何记录时的生效值
func (s *Store) Defaults() entity.ReaderPreferences {
	return s.base
}

// Load 读取生效的偏好，没有记录时返回默认值
func (s *Store) Load(ctx context.Context, ownerID string) (entity.ReaderPreferences, error) {
	data, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.base, nil
		}
		return s.base, fmt.Errorf("load preferences: %w", err)
	}

	prefs, err := s.merge(ctx, data)
	if err != nil {
		logger.Warn(ctx, "stored preferences are corrupt, using defaults",
			"owner", ownerID,
			"error", err.Error(),
		)
		return s.base, nil
	}
	return prefs, nil
}

// Save 校验后整条覆盖写入
func (s *Store) Save(ctx context.Context, ownerID string, prefs entity.ReaderPreferences) (entity.ReaderPreferences, error) {
	if err := prefs.Validate(); err != nil {
		return prefs, err
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return prefs, fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.repo.Put(ctx, ownerID, data); err != nil {
		return prefs, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

// Patch 在生效值上应用补丁后保存
// 对象按 RFC 7386 merge patch 处理，数组按 RFC 6902 JSON Patch 处理
func (s *Store) Patch(ctx context.Context, ownerID string, patch []byte) (entity.ReaderPreferences, error) {
	current, err := s.Load(ctx, ownerID)
	if err != nil {
		return current, err
	}
	doc, err := json.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("encode preferences: %w", err)
	}

	patch = bytes.TrimSpace(patch)
	var out []byte
	switch {
	case len(patch) == 0:
		return current, &entity.ValidationError{Field: "patch"}
	case patch[0] == '[':
		p, err := jsonpatch.DecodePatch(patch)
		if err != nil {
			return current, &entity.ValidationError{Field: "patch", Reason: err.Error()}
		}
		if out, err = p.Apply(doc); err != nil {
			return current, &entity.ValidationError{Field: "patch", Reason: err.Error()}
		}
	default:
		if out, err = jsonpatch.MergePatch(doc, patch); err != nil {
			return current, &entity.ValidationError{Field: "patch", Reason: err.Error()}
		}
	}

	var next entity.ReaderPreferences
	if err := json.Unmarshal(out, &next); err != nil {
		return current, &entity.ValidationError{Field: "patch", Reason: err.Error()}
	}
	return s.Save(ctx, ownerID, next)
}

// storedPreferences 逐字段合并，缺失或非法字段保持默认值
type storedPreferences struct {
	FontSize         *int     `json:"fontSize"`
	FontFamily       *string  `json:"fontFamily"`
	LineHeight       *float64 `json:"lineHeight"`
	Theme            *string  `json:"theme"`
	MaxWidth         *int     `json:"maxWidth"`
	ParagraphSpacing *float64 `json:"paragraphSpacing"`
	JustifyText      *bool    `json:"justifyText"`
	ShowProgress     *bool    `json:"showProgress"`
	AutoAdvance      *bool    `json:"autoAdvance"`
}

func (s *Store) merge(ctx context.Context, data []byte) (entity.ReaderPreferences, error) {
	var stored storedPreferences
	if err := json.Unmarshal(data, &stored); err != nil {
		return s.base, err
	}

	prefs := s.base
	apply := func(field string, set func()) {
		candidate := prefs
		set()
		if err := prefs.Validate(); err != nil {
			logger.Debug(ctx, "ignoring invalid stored preference field", "field", field)
			prefs = candidate
		}
	}

	if stored.FontSize != nil {
		apply("fontSize", func() { prefs.FontSize = *stored.FontSize })
	}
	if stored.FontFamily != nil {
		apply("fontFamily", func() { prefs.FontFamily = *stored.FontFamily })
	}
	if stored.LineHeight != nil {
		apply("lineHeight", func() { prefs.LineHeight = *stored.LineHeight })
	}
	if stored.Theme != nil {
		apply("theme", func() { prefs.Theme = *stored.Theme })
	}
	if stored.MaxWidth != nil {
		apply("maxWidth", func() { prefs.MaxWidth = *stored.MaxWidth })
	}
	if stored.ParagraphSpacing != nil {
		apply("paragraphSpacing", func() { prefs.ParagraphSpacing = *stored.ParagraphSpacing })
	}
	if stored.JustifyText != nil {
		prefs.JustifyText = *stored.JustifyText
	}
	if stored.ShowProgress != nil {
		prefs.ShowProgress = *stored.ShowProgress
	}
	if stored.AutoAdvance != nil {
		prefs.AutoAdvance = *stored.AutoAdvance
	}
	return prefs, nil
}
