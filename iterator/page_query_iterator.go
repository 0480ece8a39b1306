package iterator

import (
	"context"
	"time"

	"github.com/opdss/xltable/contracts/iterator"
)

var _ iterator.ErrIterator[any] = (*PageQueryIterator[any])(nil)

type PageQueryIteratorFn[T any] func(ctx context.Context, offset, limit int) ([]T, error)

type PageQueryIteratorOption[T any] func(provider *PageQueryIterator[T])

// WithPageQueryIteratorLimit 数据批量查询数量
func WithPageQueryIteratorLimit[T any](n int) PageQueryIteratorOption[T] {
	return func(provider *PageQueryIterator[T]) {
		if n > 0 {
			provider.limit = n
		}
	}
}

// WithPageQueryIteratorQueryTimeout 单次查询超时控制
func WithPageQueryIteratorQueryTimeout[T any](t time.Duration) PageQueryIteratorOption[T] {
	return func(provider *PageQueryIterator[T]) {
		if t > 0 {
			provider.queryTimeout = t
		}
	}
}

// WithPageQueryIteratorContext 查询使用的上下文，取消后迭代结束并通过 Err 返回
func WithPageQueryIteratorContext[T any](ctx context.Context) PageQueryIteratorOption[T] {
	return func(provider *PageQueryIterator[T]) {
		if ctx != nil {
			provider.ctx = ctx
		}
	}
}

// PageQueryIterator 按 offset/limit 分页查询的迭代器
type PageQueryIterator[T any] struct {
	ctx          context.Context
	offset       int
	limit        int
	hasMore      bool
	queryTimeout time.Duration
	sliceIter    *SliceIterator[T]
	queryFn      PageQueryIteratorFn[T]
	err          error
}

func NewPageQueryIterator[T any](queryFn PageQueryIteratorFn[T], opts ...PageQueryIteratorOption[T]) *PageQueryIterator[T] {
	g := &PageQueryIterator[T]{
		ctx:          context.Background(),
		offset:       0,
		limit:        2000,
		hasMore:      true,
		queryTimeout: time.Second * 30,
		sliceIter:    NewSliceIterator(make([]T, 0)),
		queryFn:      queryFn,
	}

	for i := range opts {
		opts[i](g)
	}
	return g
}

func (dp *PageQueryIterator[T]) Next() bool {
	//先取完当前这一批
	if dp.sliceIter.Next() {
		return true
	}
	if !dp.hasMore {
		return false
	}
	ctx, cancel := context.WithTimeout(dp.ctx, dp.queryTimeout)
	defer cancel()
	list, err := dp.queryFn(ctx, dp.offset, dp.limit)
	if err != nil {
		dp.err = err
		dp.hasMore = false
		return false
	}
	if len(list) == 0 {
		dp.hasMore = false
		return false
	}
	//不满一页说明没有更多数据了
	if len(list) < dp.limit {
		dp.hasMore = false
	}
	dp.offset += dp.limit
	dp.sliceIter = NewSliceIterator(list)
	return dp.sliceIter.Next()
}

func (dp *PageQueryIterator[T]) Value() T {
	return dp.sliceIter.Value()
}

// Err 查询失败的错误
func (dp *PageQueryIterator[T]) Err() error {
	return dp.err
}
