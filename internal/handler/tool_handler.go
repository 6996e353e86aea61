package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-dbagent/internal/middleware"
	"github.com/ashwinyue/next-dbagent/internal/service"
	"github.com/ashwinyue/next-dbagent/internal/service/dbtool"
	"github.com/ashwinyue/next-dbagent/internal/service/registry"
)

// ToolHandler 工具目录处理器
type ToolHandler struct {
	svc *service.Services
}

// NewToolHandler 创建工具目录处理器
func NewToolHandler(svc *service.Services) *ToolHandler {
	return &ToolHandler{svc: svc}
}

// EnsureToolRequest 幂等注册请求
type EnsureToolRequest struct {
	Name     string            `json:"name" binding:"required"`
	Defaults registry.Defaults `json:"defaults" binding:"required"`
}

// EnsureTool 幂等注册工具定义
// 新建返回 201，已存在返回 200，两种结果都带 status 字段
func (h *ToolHandler) EnsureTool(c *gin.Context) {
	var req EnsureToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	result, err := h.svc.Registry.EnsureRegistered(c.Request.Context(), req.Name, req.Defaults)
	if err != nil {
		errorResponse(c, err)
		return
	}

	if result.Created {
		created(c, result)
		return
	}
	success(c, result)
}

// GetTool 获取工具定义
func (h *ToolHandler) GetTool(c *gin.Context) {
	id := c.Param("id")

	def, err := h.svc.Registry.GetByID(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, def)
}

// ListTools 列出工具定义
func (h *ToolHandler) ListTools(c *gin.Context) {
	page, size := getPagination(c)

	defs, err := h.svc.Registry.List(c.Request.Context(), &registry.ListRequest{
		Page: page,
		Size: size,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"items": defs,
			"total": int64(len(defs)),
			"page":  page,
			"size":  size,
		},
	})
}

// ListActiveTools 列出可调用的工具定义
func (h *ToolHandler) ListActiveTools(c *gin.Context) {
	defs, err := h.svc.Registry.ListActive(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, defs)
}

// InvokeQueryDatabase 执行 query_database 工具
// 调用记录归属到当前认证用户
func (h *ToolHandler) InvokeQueryDatabase(c *gin.Context) {
	var input dbtool.QueryDatabaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	if user, ok := middleware.GetCurrentUser(c); ok {
		input.UserID = user.ID
	}

	result, err := h.svc.QueryDB.Execute(c.Request.Context(), &input)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, result)
}

// ListBuiltinTools 列出内置工具的运行时信息
// 信息来自工具自身的 Info 声明，与目录中的定义行互为对照
func (h *ToolHandler) ListBuiltinTools(c *gin.Context) {
	items := make([]gin.H, 0, len(h.svc.AllTools))
	for _, bt := range h.svc.AllTools {
		info, err := bt.Info(c.Request.Context())
		if err != nil {
			errorResponse(c, err)
			return
		}
		items = append(items, gin.H{
			"name":        info.Name,
			"description": info.Desc,
		})
	}

	success(c, items)
}

// GetToolUsage 查询工具用量与累计费用
func (h *ToolHandler) GetToolUsage(c *gin.Context) {
	id := c.Param("id")

	def, err := h.svc.Registry.GetByID(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}

	monthly, err := h.svc.Billing.MonthlyUsage(c.Request.Context(), def.Name)
	if err != nil {
		errorResponse(c, err)
		return
	}

	totalCost, err := h.svc.Billing.TotalCost(c.Request.Context(), def.ToolID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"tool_id":          def.ToolID,
		"name":             def.Name,
		"monthly_calls":    monthly,
		"total_cost_cents": totalCost,
	})
}

// ListToolInvocations 列出工具调用记录
func (h *ToolHandler) ListToolInvocations(c *gin.Context) {
	id := c.Param("id")
	page, size := getPagination(c)

	invs, err := h.svc.Billing.ListInvocations(c.Request.Context(), id, page, size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, invs)
}
