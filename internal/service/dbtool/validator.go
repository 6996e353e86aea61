// Package dbtool 提供内置的 query_database 工具，允许安全地探查和读取数据库
package dbtool

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

const (
	// 行数上限，read 动作的 limit 会被收紧到该范围
	MinReadLimit     = 1
	MaxReadLimit     = 1000
	DefaultReadLimit = 100
)

// deniedFunctions 只读查询中禁止调用的函数
// SELECT 语句本身无法写数据，但这些函数有副作用或可读取服务器文件
var deniedFunctions = map[string]bool{
	"pg_sleep":             true,
	"pg_read_file":         true,
	"pg_read_binary_file":  true,
	"pg_ls_dir":            true,
	"pg_terminate_backend": true,
	"pg_cancel_backend":    true,
	"pg_reload_conf":       true,
	"setval":               true,
	"nextval":              true,
	"lo_import":            true,
	"lo_export":            true,
	"dblink":               true,
	"dblink_exec":          true,
}

// ReadQueryValidator 只读 SQL 验证器，使用 PostgreSQL 官方解析器
type ReadQueryValidator struct{}

// NewReadQueryValidator 创建只读 SQL 验证器
func NewReadQueryValidator() *ReadQueryValidator {
	return &ReadQueryValidator{}
}

// ValidateAndLimit 验证并加固只读查询
// 返回标准化后的 SQL；查询没有 LIMIT 子句时注入给定的行数上限
func (v *ReadQueryValidator) ValidateAndLimit(sqlQuery string, limit int) (string, error) {
	// 阶段 1: 基本输入验证
	if err := v.validateInput(sqlQuery); err != nil {
		return "", err
	}

	// 阶段 2: 使用 PostgreSQL 官方解析器解析 SQL
	result, err := pg_query.Parse(sqlQuery)
	if err != nil {
		return "", fmt.Errorf("SQL 解析错误: %v", err)
	}

	// 阶段 3: 确保只有一个语句
	if len(result.Stmts) == 0 {
		return "", fmt.Errorf("空查询")
	}
	if len(result.Stmts) > 1 {
		return "", fmt.Errorf("不允许执行多条语句")
	}

	stmt := result.Stmts[0].Stmt

	// 阶段 4: 确保是 SELECT 语句
	selectStmt := stmt.GetSelectStmt()
	if selectStmt == nil {
		return "", fmt.Errorf("只允许 SELECT 查询")
	}

	// 阶段 5: 验证 SELECT 语句结构
	if err := v.validateSelectStmt(selectStmt); err != nil {
		return "", err
	}

	// 阶段 6: 标准化 SQL
	normalizedSQL, err := pg_query.Deparse(result)
	if err != nil {
		return "", fmt.Errorf("SQL 标准化失败: %v", err)
	}

	// 阶段 7: 禁止有副作用的函数
	// 在标准化后的 SQL 上做 token 扫描，注释和大小写变体已被 deparse 消除
	if err := v.checkDeniedFunctions(normalizedSQL); err != nil {
		return "", err
	}

	// 阶段 8: 查询没有自带 LIMIT 时注入行数上限
	if selectStmt.LimitCount == nil {
		normalizedSQL = fmt.Sprintf("%s LIMIT %d", normalizedSQL, ClampLimit(limit))
	}

	return normalizedSQL, nil
}

// validateInput 基本输入验证
func (v *ReadQueryValidator) validateInput(sql string) error {
	if strings.Contains(sql, "\x00") {
		return fmt.Errorf("SQL 查询包含非法字符")
	}
	if len(strings.TrimSpace(sql)) < 6 {
		return fmt.Errorf("SQL 查询过短")
	}
	if len(sql) > 4096 {
		return fmt.Errorf("SQL 查询过长 (最大 4096 字符)")
	}
	return nil
}

// validateSelectStmt 验证 SELECT 语句结构
func (v *ReadQueryValidator) validateSelectStmt(stmt *pg_query.SelectStmt) error {
	// 检查复合查询 (UNION/INTERSECT/EXCEPT)
	if stmt.Op != pg_query.SetOperation_SETOP_NONE {
		return fmt.Errorf("不允许使用复合查询 (UNION/INTERSECT/EXCEPT)")
	}

	// 检查 WITH 子句 (CTE)
	if stmt.WithClause != nil {
		return fmt.Errorf("不允许使用 WITH 子句 (CTE)")
	}

	// 检查 INTO 子句
	if stmt.IntoClause != nil {
		return fmt.Errorf("不允许使用 SELECT INTO")
	}

	// 检查锁定子句
	if len(stmt.LockingClause) > 0 {
		return fmt.Errorf("不允许使用锁定子句 (FOR UPDATE 等)")
	}

	return nil
}

// checkDeniedFunctions 扫描标准化 SQL 中的禁用函数
func (v *ReadQueryValidator) checkDeniedFunctions(normalizedSQL string) error {
	tokens := strings.FieldsFunc(strings.ToLower(normalizedSQL), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '(', ')', ';', '.':
			return true
		}
		return false
	})
	for _, token := range tokens {
		if deniedFunctions[token] {
			return fmt.Errorf("不允许调用函数: %s", token)
		}
	}
	return nil
}

// ClampLimit 将行数限制收紧到 [1, 1000]，0 或负值取默认值
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultReadLimit
	}
	if limit < MinReadLimit {
		return MinReadLimit
	}
	if limit > MaxReadLimit {
		return MaxReadLimit
	}
	return limit
}
