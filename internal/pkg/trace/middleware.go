// File: internal/pkg/trace/middleware.go
package trace

import (
	"battle-of-monsters/internal/pkg/ctxkey"

	"github.com/labstack/echo/v4"
)

// Middleware Echo 中间件 - 自动提取或生成 TraceID 并存储到 context
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := ExtractFromHeader(req.Header)

			ctx := WithTraceID(req.Context(), traceID)
			if requestID := req.Header.Get(echo.HeaderXRequestID); requestID != "" {
				ctx = ctxkey.WithValue(ctx, ctxkey.RequestID, requestID)
			}
			ctx = ctxkey.WithValue(ctx, ctxkey.Caller, "http")
			c.SetRequest(req.WithContext(ctx))

			// 将 TraceID 添加到响应头（方便客户端追踪）
			c.Response().Header().Set("X-Trace-Id", traceID)

			return next(c)
		}
	}
}
