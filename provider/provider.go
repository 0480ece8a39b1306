// Package provider 以数据库查询作为表格写入和导出的数据来源
//
// 查询按 offset/limit 分页执行，或者按递增的游标列分批执行，
// 查询失败时迭代结束并通过 Err 返回错误。
package provider

import (
	"context"
	"time"

	"github.com/opdss/xltable/contracts/iterator"
	iter "github.com/opdss/xltable/iterator"
	"github.com/zeebo/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrQuery = errs.Class("provider")

type Option func(o *options)

type options struct {
	ctx          context.Context
	limit        int
	queryTimeout time.Duration
	findMode     bool
}

// WithLimit 数据批量查询数量
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithQueryTimeout 单次查询超时控制
func WithQueryTimeout(t time.Duration) Option {
	return func(o *options) {
		if t > 0 {
			o.queryTimeout = t
		}
	}
}

// WithContext 取消后查询结束
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithFind 使用 Find 查询，T 为模型时会带上模型的表名和软删除条件，默认使用 Scan
func WithFind() Option {
	return func(o *options) {
		o.findMode = true
	}
}

var _ iterator.ErrIterator[any] = (*Gorm[struct{}])(nil)

// Gorm Gorm 查询数据迭代器，T 不能是指针
type Gorm[T any] struct {
	rows iterator.ErrIterator[T]
}

func newOptions(opts []Option) *options {
	o := &options{ctx: context.Background(), limit: 2000, queryTimeout: 30 * time.Second}
	for i := range opts {
		opts[i](o)
	}
	return o
}

func NewGorm[T any](tx *gorm.DB, opts ...Option) *Gorm[T] {
	o := newOptions(opts)
	query := func(ctx context.Context, offset, limit int) ([]T, error) {
		res, err := fetch[T](o, tx.WithContext(ctx).Offset(offset).Limit(limit), limit)
		if err != nil {
			return nil, ErrQuery.New("offset %d: %w", offset, err)
		}
		return res, nil
	}
	return &Gorm[T]{rows: iter.NewPageQueryIterator(query,
		iter.WithPageQueryIteratorLimit[T](o.limit),
		iter.WithPageQueryIteratorQueryTimeout[T](o.queryTimeout),
		iter.WithPageQueryIteratorContext[T](o.ctx),
	)}
}

// NewCursor 按 column 递增分批查询，key 返回一行中 column 的值，
// 下一批从上一批最后一行的值之后开始。column 的值需要唯一。
func NewCursor[T any](tx *gorm.DB, column string, key func(T) any, opts ...Option) *Gorm[T] {
	o := newOptions(opts)
	col := clause.Column{Name: column}
	started := false
	query := func(ctx context.Context, last T, limit int) ([]T, error) {
		q := tx.WithContext(ctx).Order(clause.OrderByColumn{Column: col}).Limit(limit)
		var after any
		if started {
			after = key(last)
			q = q.Where(clause.Gt{Column: col, Value: after})
		}
		res, err := fetch[T](o, q, limit)
		if err != nil {
			return nil, ErrQuery.New("%s after %v: %w", column, after, err)
		}
		started = true
		return res, nil
	}
	return &Gorm[T]{rows: iter.NewFlowQueryIterator(query,
		iter.WithFlowQueryIteratorLimit[T](o.limit),
		iter.WithFlowQueryIteratorQueryTimeout[T](o.queryTimeout),
		iter.WithFlowQueryIteratorContext[T](o.ctx),
	)}
}

func fetch[T any](o *options, q *gorm.DB, limit int) ([]T, error) {
	res := make([]T, 0, limit)
	if o.findMode {
		return res, q.Find(&res).Error
	}
	return res, q.Scan(&res).Error
}

// NewMaps 每行数据为 map[string]any
func NewMaps(tx *gorm.DB, opts ...Option) *Gorm[map[string]any] {
	return NewGorm[map[string]any](tx, opts...)
}

// NewSQL 原生 SQL 查询，作为子查询分页
func NewSQL[T any](db *gorm.DB, query string, args []any, opts ...Option) *Gorm[T] {
	return NewGorm[T](sqlTable(db, query, args), opts...)
}

// NewSQLCursor 原生 SQL 查询，按结果中的 column 列分批
func NewSQLCursor(db *gorm.DB, query string, args []any, column string, opts ...Option) *Gorm[map[string]any] {
	return NewCursor(sqlTable(db, query, args), column, func(m map[string]any) any { return m[column] }, opts...)
}

func sqlTable(db *gorm.DB, query string, args []any) *gorm.DB {
	return db.Table("(?) AS q", db.Raw(query, args...))
}

func (g *Gorm[T]) Next() bool {
	return g.rows.Next()
}

func (g *Gorm[T]) Value() any {
	return g.rows.Value()
}

// Typed 不做类型转换的值
func (g *Gorm[T]) Typed() T {
	return g.rows.Value()
}

func (g *Gorm[T]) Err() error {
	return g.rows.Err()
}
