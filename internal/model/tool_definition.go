package model

import "time"

// ToolDefinition 工具定义目录条目
// name 是业务键（唯一），tool_id 是生成的主键
type ToolDefinition struct {
	ToolID           string    `gorm:"column:tool_id;primaryKey;size:64" json:"tool_id"`
	Name             string    `gorm:"size:100;uniqueIndex" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	InputSchema      string    `gorm:"column:input_schema;type:jsonb" json:"input_schema"`
	Version          string    `gorm:"size:20" json:"version"`
	IsActive         bool      `gorm:"index;default:true" json:"is_active"`
	CostPerCallCents int       `gorm:"default:0" json:"cost_per_call_cents"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ToolDefinition) TableName() string {
	return "tool_definitions"
}
