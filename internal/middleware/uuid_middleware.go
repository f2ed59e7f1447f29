package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotFoundFunc 根据非法 ID 构造对应资源的 not found 错误
type NotFoundFunc func(id string) error

// UUIDValidationMiddleware 校验路径中的 :id / *_id 参数，非 UUID 按资源不存在处理
func UUIDValidationMiddleware(notFound NotFoundFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, name := range c.ParamNames() {
				if name != "id" && !strings.HasSuffix(name, "_id") {
					continue
				}
				value := c.Param(name)
				if value == "" {
					continue
				}
				if _, err := uuid.Parse(value); err != nil {
					return notFound(value)
				}
			}

			return next(c)
		}
	}
}
