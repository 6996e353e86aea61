// Package registry 提供工具定义的幂等注册
//
// EnsureRegistered 保证目录中恰好存在一条指定 name 的定义：
// 不存在时用默认值插入，已存在时不做任何写入（first-insert-wins，
// 不会用新默认值覆盖或"升级"已有定义）
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-dbagent/internal/model"
	"github.com/ashwinyue/next-dbagent/internal/repository"
)

// 注册结果状态
const (
	StatusCreated       = "created"
	StatusAlreadyExists = "already exists"
)

// Defaults 首次注册时使用的定义模板
type Defaults struct {
	Description      string `json:"description"`
	InputSchema      string `json:"input_schema"`
	Version          string `json:"version"`
	IsActive         bool   `json:"is_active"`
	CostPerCallCents int    `json:"cost_per_call_cents"`
}

// RegisterResult 注册结果
type RegisterResult struct {
	Definition *model.ToolDefinition `json:"definition"`
	Created    bool                  `json:"created"`
	Status     string                `json:"status"`
}

// Service 工具注册服务
type Service struct {
	store repository.ToolDefinitionStore
}

// NewService 创建工具注册服务
func NewService(store repository.ToolDefinitionStore) *Service {
	return &Service{store: store}
}

// EnsureRegistered 幂等注册一条工具定义
// 插入是原子的（存储层 name 唯一约束 + insert-if-absent），
// 并发的第二个写入者得到 Created=false，与"已存在"等价
func (s *Service) EnsureRegistered(ctx context.Context, name string, defaults Defaults) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if defaults.Version == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidDefinition)
	}
	if defaults.CostPerCallCents < 0 {
		return nil, fmt.Errorf("%w: cost_per_call_cents must be >= 0", ErrInvalidDefinition)
	}

	schemaJSON, err := NormalizeInputSchema(defaults.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	now := time.Now()
	def := &model.ToolDefinition{
		ToolID:           NewToolID(),
		Name:             name,
		Description:      defaults.Description,
		InputSchema:      schemaJSON,
		Version:          defaults.Version,
		IsActive:         defaults.IsActive,
		CostPerCallCents: defaults.CostPerCallCents,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	inserted, err := s.store.CreateIfAbsent(ctx, def)
	if err != nil {
		// 唯一约束竞态：另一个写入者抢先插入，按"已存在"处理
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		inserted = false
	}

	if inserted {
		return &RegisterResult{Definition: def, Created: true, Status: StatusCreated}, nil
	}

	// 已存在：返回目录中的现有行，原值保持不变
	existing, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &RegisterResult{Definition: existing, Created: false, Status: StatusAlreadyExists}, nil
}

// GetByName 按业务键查询工具定义
func (s *Service) GetByName(ctx context.Context, name string) (*model.ToolDefinition, error) {
	def, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return def, nil
}

// GetByID 按主键查询工具定义
func (s *Service) GetByID(ctx context.Context, toolID string) (*model.ToolDefinition, error) {
	def, err := s.store.GetByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, toolID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return def, nil
}

// ListRequest 列出工具定义请求
type ListRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// List 列出工具定义
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*model.ToolDefinition, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}

	offset := (req.Page - 1) * req.Size
	return s.store.List(ctx, offset, req.Size)
}

// ListActive 列出可调用的工具定义
func (s *Service) ListActive(ctx context.Context) ([]*model.ToolDefinition, error) {
	return s.store.ListActive(ctx)
}

// NewToolID 生成工具主键
func NewToolID() string {
	return "tool_" + uuid.New().String()
}
