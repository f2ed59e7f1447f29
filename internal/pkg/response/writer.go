package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"battle-of-monsters/internal/pkg/ctxkey"
	"battle-of-monsters/internal/pkg/i18n"
	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/xerrors"
)

// Writer 统一的响应写入接口
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
}

// ResponseHandler Writer 的默认实现
type ResponseHandler struct {
	logger      log.Logger
	environment string
}

// NewResponseHandler 创建响应处理器
func NewResponseHandler(logger log.Logger, environment string) *ResponseHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ResponseHandler{logger: logger, environment: environment}
}

// DefaultResponseHandler 使用全局 logger 的开发环境处理器（测试常用）
func DefaultResponseHandler() *ResponseHandler {
	return NewResponseHandler(log.GetLogger(), "development")
}

// WriteSuccess 写入成功响应
func (h *ResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	resp := Success(&data)
	resp.TraceId = ctxkey.GetString(ctx, ctxkey.TraceID)
	return JSON(w, http.StatusOK, resp)
}

// WriteError 写入错误响应，非 AppError 一律包装为内部错误
func (h *ResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr, ok := xerrors.As(err)
	if !ok {
		appErr = xerrors.NewWithError(xerrors.CodeInternalError, xerrors.CodeInternalError.Message(), err)
	}

	status := xerrors.GetHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.LogAppError(ctx, h.logger, "请求处理失败", appErr)
	} else {
		h.logger.WarnContext(ctx, "请求被拒绝",
			log.Int("code", appErr.Code.ToInt()),
			log.String("message", appErr.Message),
		)
	}

	resp := Error[EmptyData](appErr.Code.ToInt(), h.localizedMessage(ctx, appErr), h.errorDetail(appErr))
	resp.TraceId = ctxkey.GetString(ctx, ctxkey.TraceID)
	return JSON(w, status, resp)
}

// WriteJSON 直接输出 JSON，不做统一包装
func (h *ResponseHandler) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// localizedMessage 业务层设置了自定义消息时原样返回，否则按请求语言翻译
func (h *ResponseHandler) localizedMessage(ctx context.Context, appErr *xerrors.AppError) string {
	if appErr.Message != "" && appErr.Message != appErr.Code.Message() {
		return appErr.Message
	}
	return i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx))
}

// errorDetail 生产环境只暴露校验类细节，开发环境附带底层错误
func (h *ResponseHandler) errorDetail(appErr *xerrors.AppError) string {
	var detail string
	if appErr.Context != nil {
		for _, key := range []string{"validation_message", "reason", "column"} {
			if v, ok := appErr.Context.Metadata[key]; ok {
				detail = fmt.Sprintf("%v", v)
				break
			}
		}
	}
	if h.environment != "production" && appErr.Err != nil {
		if detail == "" {
			return appErr.Err.Error()
		}
		return detail + ": " + appErr.Err.Error()
	}
	return detail
}
