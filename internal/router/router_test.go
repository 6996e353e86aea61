// Package router 路由与中间件测试
package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-dbagent/internal/config"
	"github.com/ashwinyue/next-dbagent/internal/handler"
	"github.com/ashwinyue/next-dbagent/internal/service"
	"github.com/ashwinyue/next-dbagent/internal/service/auth"
	"github.com/ashwinyue/next-dbagent/internal/service/dbtool"
)

// newTestRouter 不依赖数据库和 Redis 的路由，只覆盖中间件行为
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := &service.Services{
		Auth:     auth.NewService(nil, &config.Config{}),
		Config:   &config.Config{App: config.AppConfig{Name: "next-dbagent", Version: "1.0.0"}},
		AllTools: []einotool.BaseTool{dbtool.NewQueryDatabaseTool(nil, nil, nil)},
	}
	return SetupRouter(handler.NewHandlers(svc), svc)
}

// ========== 健康检查测试 ==========

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("GET /health body = %q, want it to contain ok", w.Body.String())
	}
}

// ========== CORS 测试 ==========

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tools/ensure", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

// ========== 认证中间件测试 ==========

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		header string
	}{
		{
			name:   "ensure without header",
			method: http.MethodPost,
			path:   "/api/v1/tools/ensure",
		},
		{
			name:   "invoke without header",
			method: http.MethodPost,
			path:   "/api/v1/tools/query-database/invoke",
		},
		{
			name:   "ensure with malformed header",
			method: http.MethodPost,
			path:   "/api/v1/tools/ensure",
			header: "Token abc",
		},
		{
			name:   "ensure with garbage bearer token",
			method: http.MethodPost,
			path:   "/api/v1/tools/ensure",
			header: "Bearer not-a-jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s status = %d, want 401", tt.method, tt.path, w.Code)
			}
		})
	}
}

// ========== 内置工具信息测试 ==========

func TestBuiltinToolsEndpoint(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools/builtin", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /api/v1/tools/builtin status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "query_database") {
		t.Errorf("body = %q, want query_database listed", w.Body.String())
	}
}

// ========== 系统信息测试 ==========

func TestSystemInfoEndpoint(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /api/v1/system/info status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "next-dbagent") {
		t.Errorf("body = %q, want app name present", w.Body.String())
	}
}
