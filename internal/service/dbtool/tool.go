package dbtool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-dbagent/internal/model"
	"github.com/ashwinyue/next-dbagent/internal/repository"
	"github.com/ashwinyue/next-dbagent/internal/service/billing"
	"github.com/ashwinyue/next-dbagent/internal/service/registry"
)

// 动作名
const (
	ActionDescribe = "describe"
	ActionRead     = "read"
)

// 结果载荷状态
const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// QueryDatabaseInput query_database 输入参数
// 字段与目录里注册的 input_schema 一一对应
// UserID 由认证中间件注入，不接受客户端传入
type QueryDatabaseInput struct {
	Action    string `json:"action"`
	TableName string `json:"table_name,omitempty"`
	Schema    string `json:"schema,omitempty"`
	Query     string `json:"query,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	UserID    string `json:"-"`
}

// QueryDatabaseTool 数据库查询工具
// describe: 返回表结构；read: 执行只读 SELECT
type QueryDatabaseTool struct {
	db      *gorm.DB
	defs    repository.ToolDefinitionStore
	billing *billing.Service
}

// NewQueryDatabaseTool 创建数据库查询工具
func NewQueryDatabaseTool(db *gorm.DB, defs repository.ToolDefinitionStore, billingSvc *billing.Service) *QueryDatabaseTool {
	return &QueryDatabaseTool{
		db:      db,
		defs:    defs,
		billing: billingSvc,
	}
}

// Info 返回工具信息
func (t *QueryDatabaseTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: registry.ToolQueryDatabase,
		Desc: "Query the database using direct tools to describe tables or read data",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{
				"action": {
					Type:     schema.String,
					Desc:     "The database action to perform",
					Enum:     []string{ActionDescribe, ActionRead},
					Required: true,
				},
				"table_name": {
					Type: schema.String,
					Desc: "Name of the table to describe (for action=describe)",
				},
				"schema": {
					Type: schema.String,
					Desc: "Schema name (default: 'public')",
				},
				"query": {
					Type: schema.String,
					Desc: "SELECT SQL query to execute (for action=read)",
				},
				"limit": {
					Type: schema.Integer,
					Desc: "Maximum number of rows (1-1000, default: 100)",
				},
			},
		),
	}, nil
}

// InvokableRun 执行工具
func (t *QueryDatabaseTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input QueryDatabaseInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("参数解析失败: %v", err)
	}

	result, err := t.Execute(ctx, &input)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("结果序列化失败: %v", err)
	}
	return string(out), nil
}

// Execute 执行 describe/read 动作
// 工具定义必须已注册且 is_active，调用按 cost_per_call_cents 计费
func (t *QueryDatabaseTool) Execute(ctx context.Context, input *QueryDatabaseInput) (interface{}, error) {
	def, err := t.defs.GetByName(ctx, registry.ToolQueryDatabase)
	if err != nil {
		return nil, fmt.Errorf("工具定义不可用: %w", err)
	}
	if !def.IsActive {
		return nil, fmt.Errorf("工具 %s 已停用", def.Name)
	}

	start := time.Now()
	result, execErr := t.dispatch(ctx, input)

	status := model.InvocationStatusSuccess
	if execErr != nil || resultFailed(result) {
		status = model.InvocationStatusError
	}
	if t.billing != nil {
		if _, err := t.billing.RecordInvocation(ctx, def, input.UserID, input.Action, status, time.Since(start)); err != nil {
			log.Printf("Warning: failed to record invocation of %s: %v", def.Name, err)
		}
	}

	return result, execErr
}

// resultFailed 识别以 error 状态返回的结果载荷
// 校验器拒绝查询或表不存在时返回载荷而非 Go error，计费上仍按失败处理
func resultFailed(result interface{}) bool {
	switch r := result.(type) {
	case *DescribeResult:
		return r.Status == ResultStatusError
	case *ReadResult:
		return r.Status == ResultStatusError
	}
	return false
}

// dispatch 按 action 分发
func (t *QueryDatabaseTool) dispatch(ctx context.Context, input *QueryDatabaseInput) (interface{}, error) {
	switch input.Action {
	case ActionDescribe:
		if input.TableName == "" {
			return nil, fmt.Errorf("缺少 'table_name' 参数")
		}
		return DescribeTable(ctx, t.db, input.TableName, input.Schema)
	case ActionRead:
		if input.Query == "" {
			return nil, fmt.Errorf("缺少 'query' 参数")
		}
		return ReadData(ctx, t.db, input.Query, input.Limit)
	case "":
		return nil, fmt.Errorf("缺少 'action' 参数")
	default:
		return nil, fmt.Errorf("未知的 action: %s (支持 describe/read)", input.Action)
	}
}

// String 工具的字符串表示
func (t *QueryDatabaseTool) String() string {
	return registry.ToolQueryDatabase
}
