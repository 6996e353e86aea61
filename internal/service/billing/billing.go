// Package billing 记录工具调用并维护用量计数
package billing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/next-dbagent/internal/model"
	"github.com/ashwinyue/next-dbagent/internal/repository"
)

// Service 计费服务
type Service struct {
	invocations repository.InvocationStore
	redisClient *redis.Client
}

// NewService 创建计费服务
func NewService(invocations repository.InvocationStore, redisClient *redis.Client) *Service {
	return &Service{
		invocations: invocations,
		redisClient: redisClient,
	}
}

// RecordInvocation 写入一条调用记录并累加月度用量计数
// userID 是发起调用的认证用户，匿名路径传空串
// Redis 计数失败不影响调用记录本身，只打日志
func (s *Service) RecordInvocation(ctx context.Context, def *model.ToolDefinition, userID, action, status string, duration time.Duration) (*model.ToolInvocation, error) {
	cost := 0
	if status == model.InvocationStatusSuccess {
		cost = def.CostPerCallCents
	}

	inv := &model.ToolInvocation{
		ID:         uuid.New().String(),
		ToolID:     def.ToolID,
		ToolName:   def.Name,
		UserID:     userID,
		Action:     action,
		Status:     status,
		CostCents:  cost,
		DurationMs: duration.Milliseconds(),
	}

	if err := s.invocations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to record invocation: %w", err)
	}

	if s.redisClient != nil {
		key := usageKey(def.Name, time.Now())
		if err := s.redisClient.Incr(ctx, key).Err(); err != nil {
			log.Printf("Warning: failed to bump usage counter %s: %v", key, err)
		}
	}

	return inv, nil
}

// MonthlyUsage 查询某工具当月调用次数
func (s *Service) MonthlyUsage(ctx context.Context, toolName string) (int64, error) {
	if s.redisClient == nil {
		return 0, nil
	}

	count, err := s.redisClient.Get(ctx, usageKey(toolName, time.Now())).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}
	return count, nil
}

// TotalCost 查询某工具的累计费用（分）
func (s *Service) TotalCost(ctx context.Context, toolID string) (int64, error) {
	return s.invocations.SumCostByTool(ctx, toolID)
}

// ListInvocations 列出某工具的调用记录
func (s *Service) ListInvocations(ctx context.Context, toolID string, page, size int) ([]*model.ToolInvocation, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.invocations.ListByTool(ctx, toolID, (page-1)*size, size)
}

// usageKey 月度用量计数键
func usageKey(toolName string, now time.Time) string {
	return fmt.Sprintf("usage:%s:%s", toolName, now.Format("200601"))
}
