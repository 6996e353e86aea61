package dbtool

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReadResult read 动作结果
type ReadResult struct {
	Status   string                   `json:"status"`
	Columns  []string                 `json:"columns,omitempty"`
	RowCount int                      `json:"row_count"`
	Rows     []map[string]interface{} `json:"rows,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

// ReadData 执行只读 SELECT 查询并返回结果行
// 查询先经过验证器加固（SELECT-only、单语句、LIMIT 注入）
func ReadData(ctx context.Context, db *gorm.DB, query string, limit int) (*ReadResult, error) {
	validator := NewReadQueryValidator()
	securedSQL, err := validator.ValidateAndLimit(query, limit)
	if err != nil {
		return &ReadResult{
			Status:  ResultStatusError,
			Message: fmt.Sprintf("Query rejected: %v", err),
		}, nil
	}

	rows, err := db.WithContext(ctx).Raw(securedSQL).Rows()
	if err != nil {
		return nil, fmt.Errorf("查询执行失败: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("获取列名失败: %w", err)
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		columnValues := make([]interface{}, len(columns))
		columnPointers := make([]interface{}, len(columns))
		for i := range columnValues {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, fmt.Errorf("读取行数据失败: %w", err)
		}

		rowMap := make(map[string]interface{})
		for i, colName := range columns {
			rowMap[colName] = normalizeValue(columnValues[i])
		}
		results = append(results, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历结果失败: %w", err)
	}

	return &ReadResult{
		Status:   ResultStatusSuccess,
		Columns:  columns,
		RowCount: len(results),
		Rows:     results,
		Message:  fmt.Sprintf("Retrieved %d rows", len(results)),
	}, nil
}

// normalizeValue 把驱动返回的原始值转成可 JSON 序列化的形式
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}
