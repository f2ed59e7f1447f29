package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"battle-of-monsters/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{name: "空头部使用默认语言", header: "", want: language.Chinese},
		{name: "英文优先", header: "en-US,en;q=0.9,zh;q=0.5", want: language.English},
		{name: "中文优先", header: "zh-CN,zh;q=0.9,en;q=0.8", want: language.Chinese},
		{name: "不支持的语言回落到默认", header: "fr-FR", want: language.Chinese},
		{name: "德语回落到默认", header: "de", want: language.Chinese},
		{name: "日语回落到默认", header: "ja-JP", want: language.Chinese},
		{name: "不支持的语言后有英文候选", header: "fr-FR,en;q=0.5", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcceptLanguage(tt.header))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "Monster not found", GetErrorMessage(xerrors.CodeMonsterNotFound, language.English))
	assert.Equal(t, "怪物不存在", GetErrorMessage(xerrors.CodeMonsterNotFound, language.Chinese))
	assert.Equal(t, "Unknown error", GetErrorMessage(xerrors.ErrorCode(999999), language.English))
}

func TestLanguageRoundTripThroughContext(t *testing.T) {
	ctx := WithLanguage(context.Background(), ParseLanguageCode("en-GB"))
	assert.Equal(t, language.English, GetLanguage(ctx))
	assert.Equal(t, "en", GetLanguageCode(GetLanguage(ctx)))
	assert.Equal(t, DefaultLanguage, GetLanguage(context.Background()))
}

func TestParseLanguageCode(t *testing.T) {
	assert.Equal(t, language.English, ParseLanguageCode("EN-us"))
	assert.Equal(t, language.Chinese, ParseLanguageCode("zh-CN"))
	assert.Equal(t, language.Chinese, ParseLanguageCode("fr"))
	assert.Equal(t, language.Chinese, ParseLanguageCode("!!"))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   language.Tag
	}{
		{name: "查询参数优先", target: "/?lang=en", header: "zh-CN", want: language.English},
		{name: "读取 Accept-Language", target: "/", header: "en-GB", want: language.English},
		{name: "默认中文", target: "/", want: language.Chinese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rec := httptest.NewRecorder()

			var got language.Tag
			h := Middleware()(func(c echo.Context) error {
				got = GetLanguage(c.Request().Context())
				return c.NoContent(http.StatusNoContent)
			})
			require.NoError(t, h(e.NewContext(req, rec)))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, GetLanguageCode(tt.want), rec.Header().Get("Content-Language"))
		})
	}
}
