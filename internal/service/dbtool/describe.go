package dbtool

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

// DefaultSchema describe 动作的默认 schema
const DefaultSchema = "public"

// identifierPattern 合法的表名/schema 名
// 行数统计需要把标识符拼进 SQL，先在这里把关
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ColumnInfo 列信息
type ColumnInfo struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	MaxLength    *int64  `json:"max_length"`
	Nullable     bool    `json:"nullable"`
	Default      *string `json:"default"`
	IsPrimaryKey bool    `json:"is_primary_key"`
}

// DescribeResult describe 动作结果
type DescribeResult struct {
	Status    string       `json:"status"`
	Schema    string       `json:"schema,omitempty"`
	TableName string       `json:"table_name,omitempty"`
	Columns   []ColumnInfo `json:"columns,omitempty"`
	RowCount  *int64       `json:"row_count,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// describeRow information_schema 查询的扫描目标
type describeRow struct {
	ColumnName    string  `gorm:"column:column_name"`
	DataType      string  `gorm:"column:data_type"`
	CharMaxLength *int64  `gorm:"column:character_maximum_length"`
	IsNullable    string  `gorm:"column:is_nullable"`
	ColumnDefault *string `gorm:"column:column_default"`
	IsPrimaryKey  bool    `gorm:"column:is_primary_key"`
}

const describeColumnsSQL = `
SELECT
    c.column_name,
    c.data_type,
    c.character_maximum_length,
    c.is_nullable,
    c.column_default,
    pk.column_name IS NOT NULL AS is_primary_key
FROM information_schema.columns c
LEFT JOIN (
    SELECT ku.table_schema, ku.table_name, ku.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage ku
        ON tc.constraint_name = ku.constraint_name
        AND tc.table_schema = ku.table_schema
    WHERE tc.constraint_type = 'PRIMARY KEY'
) pk ON c.table_schema = pk.table_schema
    AND c.table_name = pk.table_name
    AND c.column_name = pk.column_name
WHERE c.table_schema = ? AND c.table_name = ?
ORDER BY c.ordinal_position`

// DescribeTable 返回表结构：列名、类型、可空性、默认值、主键标记和行数
func DescribeTable(ctx context.Context, db *gorm.DB, tableName, schemaName string) (*DescribeResult, error) {
	if schemaName == "" {
		schemaName = DefaultSchema
	}
	if !identifierPattern.MatchString(tableName) {
		return nil, fmt.Errorf("非法的表名: %q", tableName)
	}
	if !identifierPattern.MatchString(schemaName) {
		return nil, fmt.Errorf("非法的 schema 名: %q", schemaName)
	}

	var rows []describeRow
	if err := db.WithContext(ctx).Raw(describeColumnsSQL, schemaName, tableName).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询表结构失败: %w", err)
	}

	if len(rows) == 0 {
		return &DescribeResult{
			Status:  ResultStatusError,
			Message: fmt.Sprintf("Table %s.%s not found or you don't have permission to access it.", schemaName, tableName),
		}, nil
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, ColumnInfo{
			Name:         row.ColumnName,
			Type:         row.DataType,
			MaxLength:    row.CharMaxLength,
			Nullable:     row.IsNullable == "YES",
			Default:      row.ColumnDefault,
			IsPrimaryKey: row.IsPrimaryKey,
		})
	}

	result := &DescribeResult{
		Status:    ResultStatusSuccess,
		Schema:    schemaName,
		TableName: tableName,
		Columns:   columns,
	}

	// 行数统计失败不算错误，可能只是没有权限
	var count int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM %q.%q`, schemaName, tableName)
	if err := db.WithContext(ctx).Raw(countSQL).Scan(&count).Error; err == nil {
		result.RowCount = &count
	}

	return result, nil
}
