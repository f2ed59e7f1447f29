// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"net/http"
	"time"

	"battle-of-monsters/internal/pkg/ctxkey"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RoutePatternHeader 回写给客户端的路由模板头，便于排查指标标签
const RoutePatternHeader = "X-Route-Pattern"

// maxTrackedRoutes 路由标签上限，超出的统一记为 "other"
const maxTrackedRoutes = 200

var pathLimitTracker = NewPathLimitTracker(maxTrackedRoutes)

// Middleware Echo 中间件 - 记录 HTTP 请求指标
//
// 使用 c.Path() 的路由模板作为标签，健康检查端点不计入。
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := ctxkey.WithValue(req.Context(), ctxkey.HTTPMethod, req.Method)
			c.SetRequest(req.WithContext(ctx))

			if IsHealthCheckEndpoint(req.URL.Path) {
				return next(c)
			}

			m := DefaultHTTPMetrics
			service := GetServiceName()
			m.IncInProgress(service)
			defer m.DecInProgress(service)

			route := pathLimitTracker.TrackPath(NormalizeRoute(c.Path()))
			c.Response().Header().Set(RoutePatternHeader, route)

			start := time.Now()
			err := next(c)
			if err != nil {
				// 让 echo 的 HTTPErrorHandler 先写出响应，保证状态码准确
				c.Error(err)
			}

			m.RecordRequest(service, route, req.Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// Handler 返回 Prometheus metrics HTTP 处理器
// 用于暴露 /metrics 端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// EchoHandler Echo 框架的 Prometheus metrics 处理器
func EchoHandler() echo.HandlerFunc {
	h := promhttp.Handler()
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	}
}
