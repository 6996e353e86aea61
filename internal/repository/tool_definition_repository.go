package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashwinyue/next-dbagent/internal/model"
)

// ToolDefinitionRepository 工具定义数据访问
type ToolDefinitionRepository struct {
	db *gorm.DB
}

// NewToolDefinitionRepository 创建工具定义仓库
func NewToolDefinitionRepository(db *gorm.DB) *ToolDefinitionRepository {
	return &ToolDefinitionRepository{db: db}
}

// CreateIfAbsent 按 name 原子插入，已存在时不做任何写入
// 返回值表示本次调用是否真正插入了新行
// 通过 ON CONFLICT DO NOTHING 关闭 check-then-act 竞态：
// 并发的第二个写入者观察到 inserted=false，与"已存在"不可区分
func (r *ToolDefinitionRepository) CreateIfAbsent(ctx context.Context, def *model.ToolDefinition) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(def)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID 获取工具定义
func (r *ToolDefinitionRepository) GetByID(ctx context.Context, toolID string) (*model.ToolDefinition, error) {
	var def model.ToolDefinition
	err := r.db.WithContext(ctx).Where("tool_id = ?", toolID).First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// GetByName 按业务键获取工具定义
func (r *ToolDefinitionRepository) GetByName(ctx context.Context, name string) (*model.ToolDefinition, error) {
	var def model.ToolDefinition
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// List 列出工具定义
func (r *ToolDefinitionRepository) List(ctx context.Context, offset, limit int) ([]*model.ToolDefinition, error) {
	var defs []*model.ToolDefinition
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&defs).Error
	return defs, err
}

// ListActive 列出可调用的工具定义
func (r *ToolDefinitionRepository) ListActive(ctx context.Context) ([]*model.ToolDefinition, error) {
	var defs []*model.ToolDefinition
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Find(&defs).Error
	return defs, err
}

// CountByName 统计同名定义数量
func (r *ToolDefinitionRepository) CountByName(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ToolDefinition{}).Where("name = ?", name).Count(&count).Error
	return count, err
}
