package validator

import (
	"testing"

	"battle-of-monsters/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monsterInput struct {
	Name   string `json:"name" validate:"required,max=128,monster_name"`
	Attack int    `json:"attack" validate:"min=0,max=100000"`
	HP     int    `json:"hp" validate:"min=1"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     monsterInput
		wantField string
		wantMsg   string
	}{
		{name: "合法输入", input: monsterInput{Name: "Dragon", Attack: 10, HP: 5}},
		{name: "名称为空", input: monsterInput{Attack: 10, HP: 5}, wantField: "name", wantMsg: "名称不能为空"},
		{name: "名称为空白", input: monsterInput{Name: "   ", HP: 5}, wantField: "name", wantMsg: "名称不能为空白或包含控制字符"},
		{name: "攻击力为负", input: monsterInput{Name: "Orc", Attack: -1, HP: 5}, wantField: "attack", wantMsg: "攻击力不能小于0"},
		{name: "生命值为零", input: monsterInput{Name: "Orc", HP: 0}, wantField: "hp", wantMsg: "生命值不能小于1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			appErr, ok := xerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, xerrors.CodeInvalidParams, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Context.Metadata["field"])
			assert.Equal(t, tt.wantMsg, appErr.Context.Metadata["validation_message"])
		})
	}
}

func TestCustomValidator_AsEchoValidator(t *testing.T) {
	e := echo.New()
	e.Validator = New()

	err := e.Validator.Validate(&monsterInput{Name: "Orc"})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
	assert.NoError(t, e.Validator.Validate(&monsterInput{Name: "Orc", HP: 1}))
}

func TestTranslateValidationErrors_NonValidatorError(t *testing.T) {
	errs := TranslateValidationErrors(assert.AnError)
	require.Len(t, errs, 1)
	assert.Equal(t, "request", errs[0].Field)
	assert.Equal(t, "unknown", errs[0].Tag)
}
