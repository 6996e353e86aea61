package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-dbagent/internal/handler"
	"github.com/ashwinyue/next-dbagent/internal/middleware"
	"github.com/ashwinyue/next-dbagent/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
		}

		// System 系统
		v1.GET("/system/info", h.System.Info)

		// Tool 工具目录
		tools := v1.Group("/tools")
		{
			tools.GET("", h.Tool.ListTools)
			tools.GET("/active", h.Tool.ListActiveTools)
			tools.GET("/builtin", h.Tool.ListBuiltinTools)
			tools.GET("/:id", h.Tool.GetTool)
			tools.GET("/:id/usage", h.Tool.GetToolUsage)
			tools.GET("/:id/invocations", h.Tool.ListToolInvocations)

			// 写操作和工具执行需要认证
			tools.POST("/ensure", middleware.RequireAuth(svc), h.Tool.EnsureTool)
			tools.POST("/query-database/invoke", middleware.RequireAuth(svc), h.Tool.InvokeQueryDatabase)
		}
	}

	return r
}
