package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-dbagent/internal/service/registry"
)

// Response 统一响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// success 成功响应
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// created 创建成功响应
func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

// errorResponse 错误响应，按错误类别映射状态码
func errorResponse(c *gin.Context, err error) {
	c.JSON(statusFromError(err), Response{Code: -1, Message: err.Error()})
}

// statusFromError 错误到 HTTP 状态码的映射
func statusFromError(err error) int {
	switch {
	case errors.Is(err, registry.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrInvalidDefinition):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getPagination 获取分页参数
func getPagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return
}
