// Package table 按固定列定义写入和读取工作表中的表格
package table

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/opdss/xltable/column"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// Table 一组有序的列以及表格级别的配置，构造后只读，可以被多个工作表共用
type Table struct {
	options *options
	columns []*column.Column
	byAttr  map[string]*column.Column
	logger  *zap.Logger
}

// New 复制列定义并分配列序号，配置错误在这里返回
func New(columns []*column.Column, opts ...Option) (*Table, error) {
	t := &Table{
		options: newOptions(opts...),
		columns: make([]*column.Column, 0, len(columns)),
		byAttr:  map[string]*column.Column{},
	}
	t.logger = t.options.logger

	var group errs.Group
	counter := map[string]int{}
	used := map[string]bool{}
	for i, c := range columns {
		if c == nil {
			group.Add(Error.New("column %d is nil", i+1))
			continue
		}
		if err := c.Err(); err != nil {
			group.Add(err)
			continue
		}
		c = c.Clone()
		c.SetIndex(len(t.columns) + 1)
		c.InheritRowStyles(t.options.rowStyles...)
		if err := c.Err(); err != nil {
			group.Add(err)
			continue
		}
		if header := c.Header(); used[header] && t.options.suffixDuplicateHeaders {
			// 跳过已经被占用的序号，例如 "a 2" 已经存在
			n := max(counter[header], 1)
			for n++; used[fmt.Sprintf("%s %d", header, n)]; n++ {
			}
			counter[header] = n
			c.SetHeader(fmt.Sprintf("%s %d", header, n))
		}
		used[c.Header()] = true
		if attr := c.Attribute(); attr != "" {
			if _, ok := t.byAttr[attr]; !ok {
				t.byAttr[attr] = c
			}
		}
		t.columns = append(t.columns, c)
	}
	if err := group.Err(); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew 配置错误时 panic，用于包级别的表格定义
func MustNew(columns []*column.Column, opts ...Option) *Table {
	t, err := New(columns, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) validate() error {
	if len(t.columns) == 0 {
		return Error.Wrap(ErrNoColumns)
	}

	seen := map[string]int{}
	var dup []string
	for _, c := range t.columns {
		seen[c.Header()]++
		if seen[c.Header()] == 2 {
			dup = append(dup, c.Header())
		}
	}
	if len(dup) > 0 {
		return Error.New("%v: %s", ErrDuplicateHeader, strings.Join(dup, ", "))
	}

	var frozen []string
	for _, c := range t.columns {
		if c.Frozen() {
			frozen = append(frozen, c.Header())
		}
	}
	if len(frozen) > 1 {
		return Error.New("%v: %s", ErrMultipleFrozen, strings.Join(frozen, ", "))
	}

	if t.options.hideExcessColumns {
		last := t.columns[len(t.columns)-1]
		if last.Hidden() || last.Grouped() {
			return Error.Wrap(ErrHideLastColumn)
		}
	}
	return nil
}

// Columns 列定义，按列序号排列
func (t *Table) Columns() []*column.Column {
	return append([]*column.Column(nil), t.columns...)
}

// Column 按属性名查找列
func (t *Table) Column(attribute string) (*column.Column, bool) {
	c, ok := t.byAttr[attribute]
	return c, ok
}

func (t *Table) Headers() []string {
	res := make([]string, len(t.columns))
	for i, c := range t.columns {
		res[i] = c.Header()
	}
	return res
}

// Policy 默认的读取异常处理方式
func (t *Table) Policy() ExceptionPolicy { return t.options.policy }

// Styles 写入时用到的全部样式名
func (t *Table) Styles() []string {
	return t.referencedStyles(true, true)
}

func (t *Table) referencedStyles(title, description bool) []string {
	seen := map[string]bool{}
	var res []string
	add := func(names ...string) {
		for _, name := range names {
			if name != "" && !seen[name] {
				seen[name] = true
				res = append(res, name)
			}
		}
	}
	if title {
		add(t.options.titleStyle)
	}
	if description {
		add(t.options.descriptionStyle)
	}
	for _, c := range t.columns {
		add(c.Styles()...)
	}
	return res
}

var (
	invalidTableChars = regexp.MustCompile(`[^0-9a-zA-Z_]`)
	invalidTableStart = regexp.MustCompile(`^[^a-zA-Z_]+`)
)

// TableName 表格对象名称，未设置时去掉工作表名中的非法字符
func (t *Table) TableName(sheetName string) string {
	if t.options.tableName != "" {
		return t.options.tableName
	}
	name := invalidTableChars.ReplaceAllString(sheetName, "")
	return invalidTableStart.ReplaceAllString(name, "")
}

// field 记录中该列使用的字段名
func field(c *column.Column) string {
	if c.Attribute() != "" {
		return c.Attribute()
	}
	return c.Header()
}
