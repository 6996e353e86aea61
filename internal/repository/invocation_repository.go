package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-dbagent/internal/model"
)

// InvocationRepository 调用记录数据访问
type InvocationRepository struct {
	db *gorm.DB
}

// NewInvocationRepository 创建调用记录仓库
func NewInvocationRepository(db *gorm.DB) *InvocationRepository {
	return &InvocationRepository{db: db}
}

// Create 写入调用记录
func (r *InvocationRepository) Create(ctx context.Context, inv *model.ToolInvocation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// ListByTool 列出某工具的调用记录
func (r *InvocationRepository) ListByTool(ctx context.Context, toolID string, offset, limit int) ([]*model.ToolInvocation, error) {
	var invs []*model.ToolInvocation
	err := r.db.WithContext(ctx).Where("tool_id = ?", toolID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&invs).Error
	return invs, err
}

// SumCostByTool 统计某工具的累计费用（分）
func (r *InvocationRepository) SumCostByTool(ctx context.Context, toolID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ToolInvocation{}).
		Where("tool_id = ? AND status = ?", toolID, model.InvocationStatusSuccess).
		Select("COALESCE(SUM(cost_cents), 0)").Scan(&total).Error
	return total, err
}
