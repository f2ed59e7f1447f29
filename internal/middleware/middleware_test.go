package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/response"
	"battle-of-monsters/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newTestLogger(buf *bytes.Buffer) log.Logger {
	return log.NewLogger(slogJSONHandler(buf))
}

func newEcho(t *testing.T) (*echo.Echo, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)
	writer := response.NewResponseHandler(logger, "test")

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(writer, logger)
	e.Use(RecoveryMiddleware(writer, logger))
	e.Use(ErrorMiddleware(writer, logger))
	return e, buf
}

func serve(e *echo.Echo, method, target string) (*httptest.ResponseRecorder, errorBody) {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   xerrors.ErrorCode
	}{
		{name: "业务错误原样输出", err: xerrors.NewMonsterNotFoundError("x"), wantStatus: http.StatusNotFound, wantCode: xerrors.CodeMonsterNotFound},
		{name: "包装过的业务错误", err: errors.Join(errors.New("ctx"), xerrors.NewMissingCombatantIDError("monster_b")), wantStatus: http.StatusBadRequest, wantCode: xerrors.CodeMissingCombatantID},
		{name: "echo 400 转参数错误", err: echo.NewHTTPError(http.StatusBadRequest, "bad json"), wantStatus: http.StatusBadRequest, wantCode: xerrors.CodeInvalidParams},
		{name: "echo 413 转参数错误", err: echo.ErrStatusRequestEntityTooLarge, wantStatus: http.StatusBadRequest, wantCode: xerrors.CodeInvalidParams},
		{name: "未知错误转内部错误", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: xerrors.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEcho(t)
			e.GET("/fail", func(c echo.Context) error { return tt.err })

			rec, body := serve(e, http.MethodGet, "/fail")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode.ToInt(), body.Code)
		})
	}
}

func TestHTTPErrorHandler_UnknownRoute(t *testing.T) {
	e, _ := newEcho(t)

	rec, body := serve(e, http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, xerrors.CodeResourceNotFound.ToInt(), body.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	e, buf := newEcho(t)
	e.GET("/panic", func(c echo.Context) error { panic("monster exploded") })

	rec, body := serve(e, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, xerrors.CodeInternalError.ToInt(), body.Code)
	assert.Contains(t, buf.String(), "monster exploded")
}

func TestUUIDValidationMiddleware(t *testing.T) {
	e, _ := newEcho(t)
	g := e.Group("/monsters", UUIDValidationMiddleware(func(id string) error {
		return xerrors.NewMonsterNotFoundError(id)
	}))
	g.GET("/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	t.Run("合法 UUID 放行", func(t *testing.T) {
		rec, _ := serve(e, http.MethodGet, "/monsters/6f1c2a7e-0b7d-4c53-9a57-1d1b0f1f2e3a")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("非法 ID 按怪物不存在处理", func(t *testing.T) {
		rec, body := serve(e, http.MethodGet, "/monsters/42")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, xerrors.CodeMonsterNotFound.ToInt(), body.Code)
		assert.Equal(t, "The monster with ID = 42 not found.", body.Message)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	e, _ := newEcho(t)
	e.Use(RateLimitMiddleware(1))
	e.GET("/api/v1/battles", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	first, _ := serve(e, http.MethodGet, "/api/v1/battles")
	require.Equal(t, http.StatusOK, first.Code)

	var limited bool
	for i := 0; i < 5; i++ {
		rec, body := serve(e, http.MethodGet, "/api/v1/battles")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			assert.Equal(t, xerrors.CodeRateLimitExceeded.ToInt(), body.Code)
			break
		}
	}
	assert.True(t, limited, "超出速率后应返回 429")

	for i := 0; i < 5; i++ {
		rec, _ := serve(e, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, rec.Code, "健康检查不限流")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	e, buf := newEcho(t)
	e.Use(LoggingMiddleware(newTestLogger(buf)))
	e.GET("/api/v1/monsters", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	serve(e, http.MethodGet, "/api/v1/monsters")
	assert.Contains(t, buf.String(), "请求完成")
	assert.Contains(t, buf.String(), "/api/v1/monsters")

	buf.Reset()
	serve(e, http.MethodGet, "/health")
	assert.Empty(t, buf.String())
}

func TestSanitizeHeaders(t *testing.T) {
	got := sanitizeHeaders(map[string][]string{
		"Authorization": {"Bearer secret"},
		"Accept":        {"application/json"},
		"Empty":         {},
	}, DefaultLoggingConfig().SensitiveHeaders)

	assert.Equal(t, "***REDACTED***", got["Authorization"])
	assert.Equal(t, "application/json", got["Accept"])
	assert.NotContains(t, got, "Empty")
}

func slogJSONHandler(buf *bytes.Buffer) slog.Handler {
	return slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
}
