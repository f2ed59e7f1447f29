package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"battle-of-monsters/internal/pkg/validator"
	"battle-of-monsters/internal/pkg/xerrors"
)

// CSV 列名（匹配时忽略大小写）
const (
	csvColumnName     = "name"
	csvColumnAttack   = "attack"
	csvColumnDefense  = "defense"
	csvColumnHP       = "hp"
	csvColumnSpeed    = "speed"
	csvColumnImageURL = "imageUrl"
)

var csvColumns = []string{csvColumnName, csvColumnAttack, csvColumnDefense, csvColumnHP, csvColumnSpeed, csvColumnImageURL}

const utf8BOM = "\ufeff"

// parseMonsterCSV 解析并校验导入文件
//
// 表头必须恰好包含 csvColumns 中的列，顺序不限。行号从 1 开始，不含表头。
func parseMonsterCSV(r io.Reader, v *validator.CustomValidator) ([]*CreateMonsterInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, xerrors.NewValidationError("file", "CSV 文件为空")
	}
	if err != nil {
		return nil, xerrors.NewValidationError("file", fmt.Sprintf("无法解析 CSV 表头: %v", err))
	}

	index, err := mapCSVHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		inputs []*CreateMonsterInput
		names  = make(map[string]int)
	)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, xerrors.NewCSVRowError(row, err.Error())
		}

		in, err := recordToInput(record, index)
		if err != nil {
			return nil, xerrors.NewCSVRowError(row, err.Error())
		}
		if err := v.Validate(in); err != nil {
			return nil, xerrors.NewCSVRowError(row, validationReason(err))
		}

		key := strings.ToLower(strings.TrimSpace(in.Name))
		if prev, dup := names[key]; dup {
			return nil, xerrors.NewCSVRowError(row, fmt.Sprintf("名称 %q 与第 %d 行重复", in.Name, prev))
		}
		names[key] = row
		inputs = append(inputs, in)
	}

	if len(inputs) == 0 {
		return nil, xerrors.NewValidationError("file", "CSV 文件没有数据行")
	}
	return inputs, nil
}

// mapCSVHeader 返回 列名 -> 下标
func mapCSVHeader(header []string) (map[string]int, error) {
	canonical := make(map[string]string, len(csvColumns))
	for _, col := range csvColumns {
		canonical[strings.ToLower(col)] = col
	}

	index := make(map[string]int, len(header))
	for i, raw := range header {
		col := strings.TrimSpace(raw)
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		name, ok := canonical[strings.ToLower(col)]
		if !ok {
			return nil, xerrors.NewCSVColumnError(col)
		}
		if _, dup := index[name]; dup {
			return nil, xerrors.NewCSVColumnError(col)
		}
		index[name] = i
	}

	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, xerrors.NewCSVColumnError(col)
		}
	}
	return index, nil
}

func recordToInput(record []string, index map[string]int) (*CreateMonsterInput, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}
	number := func(col string) (int, error) {
		raw := field(col)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %q 不是整数", col, raw)
		}
		return n, nil
	}

	in := &CreateMonsterInput{
		Name:     field(csvColumnName),
		ImageURL: field(csvColumnImageURL),
	}
	var err error
	if in.Attack, err = number(csvColumnAttack); err != nil {
		return nil, err
	}
	if in.Defense, err = number(csvColumnDefense); err != nil {
		return nil, err
	}
	if in.HP, err = number(csvColumnHP); err != nil {
		return nil, err
	}
	if in.Speed, err = number(csvColumnSpeed); err != nil {
		return nil, err
	}
	return in, nil
}

// validationReason 取出校验错误中的字段和提示
func validationReason(err error) string {
	appErr, ok := xerrors.As(err)
	if !ok || appErr.Context == nil {
		return err.Error()
	}
	field, _ := appErr.Context.Metadata["field"].(string)
	msg, _ := appErr.Context.Metadata["validation_message"].(string)
	if field == "" || msg == "" {
		return appErr.Message
	}
	return field + ": " + msg
}
