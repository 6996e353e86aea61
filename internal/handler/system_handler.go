package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-dbagent/internal/service"
)

// SystemHandler 系统信息处理器
type SystemHandler struct {
	svc       *service.Services
	startTime time.Time
}

// NewSystemHandler 创建系统信息处理器
func NewSystemHandler(svc *service.Services) *SystemHandler {
	return &SystemHandler{
		svc:       svc,
		startTime: time.Now(),
	}
}

// Info 系统信息
func (h *SystemHandler) Info(c *gin.Context) {
	success(c, gin.H{
		"name":       h.svc.Config.App.Name,
		"version":    h.svc.Config.App.Version,
		"go_version": runtime.Version(),
		"start_time": h.startTime,
		"uptime":     time.Since(h.startTime).String(),
	})
}
