package entity

import (
	"fmt"
	"strings"
	"time"
)

// ReferenceKind 世界观资料类型
type ReferenceKind string

const (
	ReferenceCharacter   ReferenceKind = "character"
	ReferenceWorld       ReferenceKind = "world"
	ReferenceMagic       ReferenceKind = "magic"
	ReferenceCultivation ReferenceKind = "cultivation"
)

// ParseReferenceKind 解析资料类型
func ParseReferenceKind(s string) (ReferenceKind, error) {
	k := ReferenceKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ReferenceCharacter, ReferenceWorld, ReferenceMagic, ReferenceCultivation:
		return k, nil
	default:
		return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown reference kind %q", s)}
	}
}

// WorldbuildingReference 可插入草稿的世界观资料，只读
type WorldbuildingReference struct {
	ID          string        `json:"id" gorm:"type:varchar(64);primaryKey"`
	NovelID     string        `json:"novelId" gorm:"type:varchar(64);index;not null"`
	Kind        ReferenceKind `json:"kind" gorm:"type:varchar(32);index;not null"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	Levels      []string      `json:"levels,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time     `json:"-" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"-" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (WorldbuildingReference) TableName() string {
	return "worldbuilding_references"
}
