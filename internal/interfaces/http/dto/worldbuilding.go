package dto

import "z-novel-studio/internal/domain/entity"

// WorldbuildingListResponse 资料列表
type WorldbuildingListResponse struct {
	NovelID    string                           `json:"novelId"`
	References []*entity.WorldbuildingReference `json:"references"`
}
