package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/metrics"
	"battle-of-monsters/internal/pkg/response"
	"battle-of-monsters/internal/pkg/trace"
	"battle-of-monsters/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware 统一错误处理中间件
//
// handler 返回的错误在这里统一转成响应，并记录错误指标。
func ErrorMiddleware(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				logger.WarnContext(c.Request().Context(), "响应已写出, 忽略后续错误", log.Any("error", err))
				return nil
			}

			appErr := toAppError(err, logger, c).WithTraceID(trace.GetTraceID(c.Request().Context()))
			metrics.DefaultErrorMetrics.RecordError(appErr, xerrors.GetHTTPStatus(appErr.Code), c.Request().Method, "")
			return respWriter.WriteError(c.Request().Context(), c.Response(), appErr)
		}
	}
}

// HTTPErrorHandler 作为 echo 的全局错误处理器，兜底路由未命中等中间件链之外的错误
func HTTPErrorHandler(respWriter response.Writer, logger log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if writeErr := respWriter.WriteError(c.Request().Context(), c.Response(), toAppError(err, logger, c)); writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "写入错误响应失败", log.Any("error", writeErr))
		}
	}
}

func toAppError(err error, logger log.Logger, c echo.Context) *xerrors.AppError {
	if appErr, ok := xerrors.As(err); ok {
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return convertEchoError(httpErr)
	}

	logger.ErrorContext(c.Request().Context(), "未处理的错误",
		log.Any("original_error", err),
		log.String("error_type", fmt.Sprintf("%T", err)),
	)
	return xerrors.NewWithError(xerrors.CodeInternalError, xerrors.CodeInternalError.Message(), err).
		WithService("echo-middleware", "error_handler")
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	message := fmt.Sprintf("%v", echoErr.Message)

	var code xerrors.ErrorCode
	switch echoErr.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		code = xerrors.CodeInvalidParams
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = xerrors.CodeResourceNotFound
	case http.StatusConflict:
		code = xerrors.CodeDuplicateResource
	case http.StatusTooManyRequests:
		code = xerrors.CodeRateLimitExceeded
	default:
		return xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", fmt.Sprintf("%d", echoErr.Code)).
			WithMetadata("echo_message", message)
	}
	return xerrors.FromCode(code).WithMetadata("echo_message", message)
}
