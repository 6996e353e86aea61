package dbtool

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-dbagent/internal/model"
	"github.com/ashwinyue/next-dbagent/internal/service/billing"
	"github.com/ashwinyue/next-dbagent/internal/service/registry"
)

// fakeDefsStore 只支持 GetByName 的工具定义目录桩
type fakeDefsStore struct {
	def *model.ToolDefinition
}

func (s *fakeDefsStore) CreateIfAbsent(ctx context.Context, def *model.ToolDefinition) (bool, error) {
	return false, nil
}

func (s *fakeDefsStore) GetByName(ctx context.Context, name string) (*model.ToolDefinition, error) {
	if s.def == nil || s.def.Name != name {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.def
	return &copied, nil
}

func (s *fakeDefsStore) GetByID(ctx context.Context, toolID string) (*model.ToolDefinition, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeDefsStore) List(ctx context.Context, offset, limit int) ([]*model.ToolDefinition, error) {
	return nil, nil
}

func (s *fakeDefsStore) ListActive(ctx context.Context) ([]*model.ToolDefinition, error) {
	return nil, nil
}

func (s *fakeDefsStore) CountByName(ctx context.Context, name string) (int64, error) {
	return 0, nil
}

// fakeInvocationStore 记录调用的内存存储
type fakeInvocationStore struct {
	records []*model.ToolInvocation
}

func (s *fakeInvocationStore) Create(ctx context.Context, inv *model.ToolInvocation) error {
	copied := *inv
	s.records = append(s.records, &copied)
	return nil
}

func (s *fakeInvocationStore) ListByTool(ctx context.Context, toolID string, offset, limit int) ([]*model.ToolInvocation, error) {
	return nil, nil
}

func (s *fakeInvocationStore) SumCostByTool(ctx context.Context, toolID string) (int64, error) {
	return 0, nil
}

func activeDefinition() *model.ToolDefinition {
	return &model.ToolDefinition{
		ToolID:           "tool_test",
		Name:             registry.ToolQueryDatabase,
		InputSchema:      registry.QueryDatabaseSchema,
		Version:          "1.0.0",
		IsActive:         true,
		CostPerCallCents: 1,
	}
}

// ========== Info 测试 ==========

func TestQueryDatabaseTool_Info(t *testing.T) {
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{}, nil)

	info, err := qdt.Info(context.Background())
	if err != nil {
		t.Fatalf("Info() unexpected error: %v", err)
	}
	if info.Name != registry.ToolQueryDatabase {
		t.Errorf("Info().Name = %q, want %q", info.Name, registry.ToolQueryDatabase)
	}
	if info.Desc == "" {
		t.Error("Info().Desc is empty")
	}
	if info.ParamsOneOf == nil {
		t.Error("Info().ParamsOneOf is nil")
	}
}

// ========== Execute 测试 ==========

func TestQueryDatabaseTool_Execute_MissingParams(t *testing.T) {
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{def: activeDefinition()}, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   *QueryDatabaseInput
		errPart string
	}{
		{
			name:    "missing action",
			input:   &QueryDatabaseInput{},
			errPart: "action",
		},
		{
			name:    "describe without table_name",
			input:   &QueryDatabaseInput{Action: ActionDescribe},
			errPart: "table_name",
		},
		{
			name:    "read without query",
			input:   &QueryDatabaseInput{Action: ActionRead},
			errPart: "query",
		},
		{
			name:    "unknown action",
			input:   &QueryDatabaseInput{Action: "write"},
			errPart: "write",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := qdt.Execute(ctx, tt.input)
			if err == nil {
				t.Fatal("Execute() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %v, want it to mention %q", err, tt.errPart)
			}
		})
	}
}

func TestQueryDatabaseTool_Execute_RequiresRegisteredDefinition(t *testing.T) {
	// 目录为空，调用应被拒绝
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{}, nil)

	_, err := qdt.Execute(context.Background(), &QueryDatabaseInput{Action: ActionDescribe, TableName: "users"})
	if err == nil {
		t.Fatal("Execute() expected error when definition is missing, got nil")
	}
}

func TestQueryDatabaseTool_Execute_RejectsInactiveDefinition(t *testing.T) {
	def := activeDefinition()
	def.IsActive = false
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{def: def}, nil)

	_, err := qdt.Execute(context.Background(), &QueryDatabaseInput{Action: ActionDescribe, TableName: "users"})
	if err == nil {
		t.Fatal("Execute() expected error for inactive definition, got nil")
	}
	if !strings.Contains(err.Error(), "停用") {
		t.Errorf("error = %v, want inactive message", err)
	}
}

func TestQueryDatabaseTool_Execute_RejectedQueryNotBilled(t *testing.T) {
	invStore := &fakeInvocationStore{}
	billingSvc := billing.NewService(invStore, nil)
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{def: activeDefinition()}, billingSvc)

	// 校验器拒绝的查询以 error 状态载荷返回，没有 Go error
	result, err := qdt.Execute(context.Background(), &QueryDatabaseInput{
		Action: ActionRead,
		Query:  "DROP TABLE tool_definitions",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	rr, ok := result.(*ReadResult)
	if !ok {
		t.Fatalf("Execute() result type = %T, want *ReadResult", result)
	}
	if rr.Status != ResultStatusError {
		t.Fatalf("result status = %q, want %q", rr.Status, ResultStatusError)
	}

	// 拒绝的调用按失败记账：不计费
	if len(invStore.records) != 1 {
		t.Fatalf("recorded %d invocations, want 1", len(invStore.records))
	}
	rec := invStore.records[0]
	if rec.Status != model.InvocationStatusError {
		t.Errorf("invocation status = %q, want %q", rec.Status, model.InvocationStatusError)
	}
	if rec.CostCents != 0 {
		t.Errorf("invocation cost = %d cents, want 0", rec.CostCents)
	}
	if rec.UserID != "user-1" {
		t.Errorf("invocation user_id = %q, want user-1", rec.UserID)
	}
}

func TestQueryDatabaseTool_Execute_DispatchErrorRecordedAsFailure(t *testing.T) {
	invStore := &fakeInvocationStore{}
	billingSvc := billing.NewService(invStore, nil)
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{def: activeDefinition()}, billingSvc)

	_, err := qdt.Execute(context.Background(), &QueryDatabaseInput{Action: "bogus"})
	if err == nil {
		t.Fatal("Execute() expected error, got nil")
	}

	if len(invStore.records) != 1 {
		t.Fatalf("recorded %d invocations, want 1", len(invStore.records))
	}
	rec := invStore.records[0]
	if rec.Status != model.InvocationStatusError {
		t.Errorf("invocation status = %q, want %q", rec.Status, model.InvocationStatusError)
	}
	if rec.CostCents != 0 {
		t.Errorf("invocation cost = %d cents, want 0", rec.CostCents)
	}
}

// ========== InvokableRun 测试 ==========

func TestQueryDatabaseTool_InvokableRun_InvalidJSON(t *testing.T) {
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{def: activeDefinition()}, nil)

	_, err := qdt.InvokableRun(context.Background(), "{not json")
	if err == nil {
		t.Fatal("InvokableRun() expected error for invalid JSON, got nil")
	}
}

func TestQueryDatabaseTool_String(t *testing.T) {
	qdt := NewQueryDatabaseTool(nil, &fakeDefsStore{}, nil)
	if qdt.String() != registry.ToolQueryDatabase {
		t.Errorf("String() = %q, want %q", qdt.String(), registry.ToolQueryDatabase)
	}
}
