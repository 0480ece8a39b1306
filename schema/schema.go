// Package schema 按声明顺序收集表格的列、样式和选项
//
// 一个 Schema 可以继承多个基础 Schema，同名的列或样式覆盖基础中的定义，
// 但保留在基础中的位置。
package schema

import (
	"strconv"

	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/table"
	"github.com/zeebo/errs"
)

var Error = errs.Class("schema")

type Schema struct {
	name    string
	bases   []*Schema
	columns []*column.Column
	styles  []style.Declaration
	options []table.Option
	fails   errs.Group
}

// New 新建 Schema，bases 中靠前的定义覆盖靠后的
func New(name string, bases ...*Schema) *Schema {
	return &Schema{name: name, bases: bases}
}

func (s *Schema) Name() string { return s.name }

// Add 按顺序追加列，属性名相同的列替换之前的定义
func (s *Schema) Add(columns ...*column.Column) *Schema {
	for _, c := range columns {
		if c == nil {
			s.fails.Add(Error.New("%s: nil column at position %d", s.name, len(s.columns)+1))
			continue
		}
		s.columns = append(s.columns, c)
	}
	return s
}

// Style 声明样式，同名样式替换之前的定义
func (s *Schema) Style(decls ...style.Declaration) *Schema {
	s.styles = append(s.styles, decls...)
	return s
}

// With 表格选项，基础 Schema 的选项先生效
func (s *Schema) With(opts ...table.Option) *Schema {
	s.options = append(s.options, opts...)
	return s
}

// Columns 合并基础 Schema 之后的列
func (s *Schema) Columns() []*column.Column {
	var items ordered[*column.Column]
	for i := len(s.bases) - 1; i >= 0; i-- {
		for _, c := range s.bases[i].Columns() {
			items.set(columnKey(c, items.size()), c)
		}
	}
	for _, c := range s.columns {
		items.set(columnKey(c, items.size()), c)
	}
	return items.values()
}

// columnKey 没有属性名的列不会覆盖其他列
func columnKey(c *column.Column, pos int) string {
	if c.Attribute() != "" {
		return c.Attribute()
	}
	return "#" + strconv.Itoa(pos)
}

// Declarations 合并基础 Schema 之后的样式声明
func (s *Schema) Declarations() []style.Declaration {
	var items ordered[style.Declaration]
	for i := len(s.bases) - 1; i >= 0; i-- {
		for _, d := range s.bases[i].Declarations() {
			items.set(d.StyleName(), d)
		}
	}
	for _, d := range s.styles {
		items.set(d.StyleName(), d)
	}
	return items.values()
}

// Styles 默认样式加上声明的样式
func (s *Schema) Styles() (*style.Set, error) {
	return style.NewDefaultSet(s.Declarations()...)
}

func (s *Schema) Options() []table.Option {
	var opts []table.Option
	for i := len(s.bases) - 1; i >= 0; i-- {
		opts = append(opts, s.bases[i].Options()...)
	}
	return append(opts, s.options...)
}

func (s *Schema) Err() error {
	var group errs.Group
	for _, b := range s.bases {
		group.Add(b.Err())
	}
	group.Add(s.fails...)
	return group.Err()
}

// Table 构造表格，opts 在 Schema 的选项之后生效
func (s *Schema) Table(opts ...table.Option) (*table.Table, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	t, err := table.New(s.Columns(), append(s.Options(), opts...)...)
	if err != nil {
		return nil, Error.New("%s: %w", s.name, err)
	}
	return t, nil
}

// ordered 保持首次插入位置的有序字典
type ordered[T any] struct {
	keys  []string
	items map[string]T
}

func (o *ordered[T]) set(key string, v T) {
	if o.items == nil {
		o.items = map[string]T{}
	}
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *ordered[T]) size() int { return len(o.keys) }

func (o *ordered[T]) values() []T {
	res := make([]T, len(o.keys))
	for i, k := range o.keys {
		res[i] = o.items[k]
	}
	return res
}
