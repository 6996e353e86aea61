package registry

import "errors"

var (
	// ErrStoreUnavailable 目录存储不可达
	ErrStoreUnavailable = errors.New("tool catalog store unavailable")

	// ErrInvalidDefinition 工具定义字段不合法
	ErrInvalidDefinition = errors.New("invalid tool definition")

	// ErrToolNotFound 工具定义不存在
	ErrToolNotFound = errors.New("tool definition not found")
)
