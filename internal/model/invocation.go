package model

import "time"

// 调用状态
const (
	InvocationStatusSuccess = "success"
	InvocationStatusError   = "error"
)

// ToolInvocation 工具调用计费记录
type ToolInvocation struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ToolID     string    `gorm:"size:64;index" json:"tool_id"`
	ToolName   string    `gorm:"size:100;index" json:"tool_name"`
	UserID     string    `gorm:"size:36;index" json:"user_id,omitempty"`
	Action     string    `gorm:"size:20" json:"action"`
	Status     string    `gorm:"size:20" json:"status"`
	CostCents  int       `gorm:"default:0" json:"cost_cents"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ToolInvocation) TableName() string {
	return "tool_invocations"
}
