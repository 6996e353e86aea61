// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"context"

	"github.com/ashwinyue/next-dbagent/internal/model"
)

// ========== ToolDefinitionStore 接口 ==========

// ToolDefinitionStore 工具定义目录访问接口
// 接口定义使 Service 层可以轻松 mock 进行单元测试
type ToolDefinitionStore interface {
	CreateIfAbsent(ctx context.Context, def *model.ToolDefinition) (bool, error)
	GetByID(ctx context.Context, toolID string) (*model.ToolDefinition, error)
	GetByName(ctx context.Context, name string) (*model.ToolDefinition, error)
	List(ctx context.Context, offset, limit int) ([]*model.ToolDefinition, error)
	ListActive(ctx context.Context) ([]*model.ToolDefinition, error)
	CountByName(ctx context.Context, name string) (int64, error)
}

// 确保 ToolDefinitionRepository 实现了接口
var _ ToolDefinitionStore = (*ToolDefinitionRepository)(nil)

// ========== InvocationStore 接口 ==========

// InvocationStore 调用记录访问接口
type InvocationStore interface {
	Create(ctx context.Context, inv *model.ToolInvocation) error
	ListByTool(ctx context.Context, toolID string, offset, limit int) ([]*model.ToolInvocation, error)
	SumCostByTool(ctx context.Context, toolID string) (int64, error)
}

// 确保 InvocationRepository 实现了接口
var _ InvocationStore = (*InvocationRepository)(nil)

// ========== UserStore 接口 ==========

// UserStore 用户数据访问接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// 确保 AuthRepository 实现了接口
var _ UserStore = (*AuthRepository)(nil)
