package service

import (
	"context"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/next-dbagent/internal/config"
	"github.com/ashwinyue/next-dbagent/internal/repository"
	"github.com/ashwinyue/next-dbagent/internal/service/auth"
	"github.com/ashwinyue/next-dbagent/internal/service/billing"
	"github.com/ashwinyue/next-dbagent/internal/service/dbtool"
	"github.com/ashwinyue/next-dbagent/internal/service/registry"
)

// Services 服务集合
type Services struct {
	Registry *registry.Service
	Billing  *billing.Service
	Auth     *auth.Service
	QueryDB  *dbtool.QueryDatabaseTool

	// 配置
	Config *config.Config

	// Eino 组件（直接使用 eino 类型，无封装）
	AllTools []einotool.BaseTool
}

// NewServices 创建所有服务
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	registrySvc := registry.NewService(repo.Tool)
	billingSvc := billing.NewService(repo.Invocation, redisClient)
	queryTool := dbtool.NewQueryDatabaseTool(repo.DB, repo.Tool, billingSvc)

	return &Services{
		Registry: registrySvc,
		Billing:  billingSvc,
		Auth:     auth.NewService(repo.Auth, cfg),
		QueryDB:  queryTool,

		Config: cfg,

		AllTools: []einotool.BaseTool{queryTool},
	}, nil
}

// SeedBuiltinTools 注册内置工具定义（启动时的迁移步骤）
func (s *Services) SeedBuiltinTools(ctx context.Context) error {
	return s.Registry.SeedBuiltinTools(ctx)
}
