package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// NormalizeInputSchema 校验并规范化 input_schema
// 定义模板可能来自人工编辑或 LLM 生成，允许轻度损坏的 JSON，
// 先尝试 jsonrepair 修复再入库；修复后仍不是 JSON 对象则拒绝
func NormalizeInputSchema(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("input_schema is required")
	}

	if !json.Valid([]byte(raw)) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return "", fmt.Errorf("input_schema is not valid JSON: %v", err)
		}
		raw = repaired
	}

	// 入库前统一为紧凑形式，保证幂等比较稳定
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return "", fmt.Errorf("input_schema must be a JSON object: %v", err)
	}

	compact, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode input_schema: %v", err)
	}
	return string(compact), nil
}
