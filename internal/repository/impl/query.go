package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// dialect PostgreSQL 方言：双引号标识符，$n 占位符
var dialect = drivers.Dialect{
	LQ:                   '"',
	RQ:                   '"',
	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// newQuery 以 PostgreSQL 方言构建查询
func newQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// countQuery 统计满足条件的行数
func countQuery(ctx context.Context, exec boil.ContextExecutor, mods ...qm.QueryMod) (int64, error) {
	q := newQuery(mods...)
	queries.SetCount(q)

	var count int64
	if err := q.QueryRowContext(ctx, exec).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// withTx 执行器支持开启事务时在事务中执行 fn，否则直接复用当前执行器（通常已经处于事务中）
func withTx(ctx context.Context, exec boil.ContextExecutor, fn func(boil.ContextExecutor) error) (err error) {
	beginner, ok := exec.(boil.ContextBeginner)
	if !ok {
		return fn(exec)
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// isUniqueViolation 判断是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isUUID id 列为 UUID 类型，非法格式的值不可能命中任何行，且直接传给 PostgreSQL 会报 22P02
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
