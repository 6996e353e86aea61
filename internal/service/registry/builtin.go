package registry

import (
	"context"
	"log"
)

// ToolQueryDatabase 内置数据库查询工具名
const ToolQueryDatabase = "query_database"

// QueryDatabaseSchema query_database 的输入 schema
// action 必填（describe/read），其余字段按动作选填
const QueryDatabaseSchema = `{
  "type": "object",
  "properties": {
    "action": {
      "type": "string",
      "enum": ["describe", "read"],
      "description": "The database action to perform"
    },
    "table_name": {
      "type": "string",
      "description": "Name of the table to describe (for action=describe)"
    },
    "schema": {
      "type": "string",
      "description": "Schema name (default: 'public')",
      "default": "public"
    },
    "query": {
      "type": "string",
      "description": "SELECT SQL query to execute (for action=read)"
    },
    "limit": {
      "type": "integer",
      "description": "Maximum number of rows (1-1000, default: 100)",
      "default": 100,
      "minimum": 1,
      "maximum": 1000
    }
  },
  "required": ["action"]
}`

// QueryDatabaseDefaults 内置 query_database 定义的默认值
func QueryDatabaseDefaults() Defaults {
	return Defaults{
		Description:      "Query the database using direct tools to describe tables or read data",
		InputSchema:      QueryDatabaseSchema,
		Version:          "1.0.0",
		IsActive:         true,
		CostPerCallCents: 1,
	}
}

// SeedBuiltinTools 注册所有内置工具定义
// 作为启动时的迁移步骤运行，重复执行是安全的
func (s *Service) SeedBuiltinTools(ctx context.Context) error {
	result, err := s.EnsureRegistered(ctx, ToolQueryDatabase, QueryDatabaseDefaults())
	if err != nil {
		return err
	}

	if result.Created {
		log.Printf("Tool definition %q registered (tool_id=%s)", ToolQueryDatabase, result.Definition.ToolID)
	} else {
		log.Printf("Tool definition %q already exists (tool_id=%s, version=%s)",
			ToolQueryDatabase, result.Definition.ToolID, result.Definition.Version)
	}
	return nil
}
