package export

import (
	"context"

	"github.com/opdss/xltable/contracts/iterator"
)

// DataProvider 数据提供者，实现了 iterator.ErrIterator 时导出结束后检查 Err
type DataProvider = iterator.Iterator[any]

// source 在数据提供者之上统计总数，并且可以预读一条判断是否还有数据
type source struct {
	ctx    context.Context
	dp     DataProvider
	max    int
	total  int
	peeked bool
	cur    any
	err    error
}

func newSource(ctx context.Context, dp DataProvider, max int) *source {
	return &source{ctx: ctx, dp: dp, max: max}
}

// more 是否还有数据，不消耗数据
func (s *source) more() bool {
	if s.err != nil {
		return false
	}
	if s.peeked {
		return true
	}
	if s.dp == nil || !s.dp.Next() {
		return false
	}
	s.peeked = true
	s.cur = s.dp.Value()
	return true
}

// Err 数据提供者的错误、超出数量或者取消导出
func (s *source) Err() error {
	if s.err != nil {
		return s.err
	}
	if ei, ok := s.dp.(iterator.ErrIterator[any]); ok {
		return ei.Err()
	}
	return nil
}

func (s *source) batch(size int) *batch {
	return &batch{src: s, size: size}
}

var _ iterator.ErrIterator[any] = (*batch)(nil)

// batch 一个文件的数据，size 为 0 时不限制数量
type batch struct {
	src   *source
	size  int
	count int
}

func (b *batch) Next() bool {
	s := b.src
	if b.size > 0 && b.count >= b.size {
		return false
	}
	//收到取消导出信号
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}
	if !s.more() {
		return false
	}
	s.total++
	//检查是否超过最大导出限制
	if s.max > 0 && s.total > s.max {
		s.err = ErrMaximumLimit
		return false
	}
	s.peeked = false
	b.count++
	return true
}

func (b *batch) Value() any { return b.src.cur }

func (b *batch) Err() error { return b.src.Err() }
