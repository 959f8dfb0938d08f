// Package entity 定义领域实体
package entity

import "slices"

// 生成参数边界
const (
	MinMaxTokens       = 100
	MaxMaxTokens       = 4000
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
)

// ProviderInfo 生成后端目录条目
type ProviderInfo struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel,omitempty"`
}

// Default 返回提供商的默认模型
// DefaultModel 不在模型列表中时退回第一个模型
func (p ProviderInfo) Default() string {
	if p.DefaultModel != "" && slices.Contains(p.Models, p.DefaultModel) {
		return p.DefaultModel
	}
	if len(p.Models) > 0 {
		return p.Models[0]
	}
	return p.DefaultModel
}

// HasModel 模型是否在目录中
func (p ProviderInfo) HasModel(model string) bool {
	return slices.Contains(p.Models, model)
}

// ProviderConfig 单次请求的提供商配置，按值传递
type ProviderConfig struct {
	ProviderID  string  `json:"providerId"`
	ModelID     string  `json:"modelId"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// Normalize 将温度和最大 token 数收敛到合法区间
func (c ProviderConfig) Normalize() ProviderConfig {
	switch {
	case c.Temperature < 0:
		c.Temperature = 0
	case c.Temperature > 1:
		c.Temperature = 1
	}
	switch {
	case c.MaxTokens == 0:
		c.MaxTokens = DefaultMaxTokens
	case c.MaxTokens < MinMaxTokens:
		c.MaxTokens = MinMaxTokens
	case c.MaxTokens > MaxMaxTokens:
		c.MaxTokens = MaxMaxTokens
	}
	return c
}
