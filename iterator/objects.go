package iterator

import "github.com/opdss/xltable/contracts/iterator"

var (
	_ iterator.ErrIterator[any] = (*anyIterator[int])(nil)
	_ iterator.ErrIterator[any] = (*chainIterator[any])(nil)
)

// Objects 把 []T 转换为表格写入需要的 Iterator[any]
func Objects[T any](data []T) iterator.ErrIterator[any] {
	return Any[T](NewSliceIterator(data))
}

// Any 把任意类型的迭代器转换为 Iterator[any]，保留 Err
func Any[T any](it iterator.Iterator[T]) iterator.ErrIterator[any] {
	return &anyIterator[T]{it: it}
}

type anyIterator[T any] struct {
	it iterator.Iterator[T]
}

func (a *anyIterator[T]) Next() bool { return a.it.Next() }

func (a *anyIterator[T]) Value() any { return a.it.Value() }

func (a *anyIterator[T]) Err() error { return errOf[T](a.it) }

// Chain 依次遍历多个迭代器，任意一个出错时停止
func Chain[T any](its ...iterator.Iterator[T]) iterator.ErrIterator[T] {
	return &chainIterator[T]{its: its}
}

type chainIterator[T any] struct {
	its []iterator.Iterator[T]
	err error
}

func (c *chainIterator[T]) Next() bool {
	for len(c.its) > 0 {
		if c.err != nil {
			return false
		}
		if c.its[0].Next() {
			return true
		}
		c.err = errOf[T](c.its[0])
		c.its = c.its[1:]
	}
	return false
}

func (c *chainIterator[T]) Value() T {
	if len(c.its) == 0 {
		var v T
		return v
	}
	return c.its[0].Value()
}

func (c *chainIterator[T]) Err() error { return c.err }

// Collect 读取全部数据
func Collect[T any](it iterator.Iterator[T]) ([]T, error) {
	var res []T
	for it.Next() {
		res = append(res, it.Value())
	}
	return res, errOf[T](it)
}

func errOf[T any](it iterator.Iterator[T]) error {
	if ei, ok := it.(iterator.ErrIterator[T]); ok {
		return ei.Err()
	}
	return nil
}
