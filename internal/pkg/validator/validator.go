package validator

import (
	"reflect"
	"strings"
	"unicode"

	"battle-of-monsters/internal/pkg/xerrors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

var _ echo.Validator = (*CustomValidator)(nil)

// Validate implements echo.Validator interface
// 校验失败返回 AppError，由错误中间件统一输出 400
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		errs := TranslateValidationErrors(err)
		appErr := xerrors.NewValidationError(errs[0].Field, errs[0].Message)
		if len(errs) > 1 {
			appErr.WithMetadata("errors", errs)
		}
		return appErr
	}
	return nil
}

// Struct 直接校验结构体，返回 go-playground 原始错误（CSV 导入按行使用）
func (cv *CustomValidator) Struct(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new custom validator instance
func New() *CustomValidator {
	return &CustomValidator{
		validator: newValidate(),
	}
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误信息中使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("monster_name", validateMonsterName)
	return v
}

// validateMonsterName 怪物名称不能为纯空白，且不能包含控制字符
func validateMonsterName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
