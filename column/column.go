// Package column 表格列的定义以及单元格的编码和解码
package column

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/typed"
	"github.com/xuri/excelize/v2"
)

// DefaultWidth 默认列宽
const DefaultWidth = 8.43 * 2

// Kind 列类型
type Kind string

const (
	KindAny      Kind = "any"
	KindChar     Kind = "char"
	KindText     Kind = "text"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindChoice   Kind = "choice"
	KindDateTime Kind = "datetime"
	KindDate     Kind = "date"
	KindYear     Kind = "year"
	KindTime     Kind = "time"
	KindFormula  Kind = "formula"
	KindEmpty    Kind = "empty"
)

// Getter 从行对象中取列的值
type Getter func(obj any) any

// RowStyle 指定行类型的覆盖配置，未设置的字段沿用列的配置
type RowStyle struct {
	RowType           any
	Getter            Getter
	CellStyle         string
	DataValidation    *excelize.DataValidation
	ConditionalFormat *sheet.ConditionalFormat
}

type codec interface {
	encode(v any, row int) (cell.Value, error)
	decode(v cell.Value) (any, error)
}

// Column 一列的定义
type Column struct {
	kind      Kind
	attribute string
	header    string
	index     int

	width       float64
	hidden      bool
	group       bool
	freeze      bool
	headerStyle string
	cellStyle   string

	def              any
	allowBlank       bool
	ignoreForcedText bool

	getter            Getter
	dataValidation    *excelize.DataValidation
	conditionalFormat *sheet.ConditionalFormat
	rowStyles         map[any]RowStyle

	// 特定类型的配置
	maxLength      int
	roundValue     bool
	strict         bool
	listValidation bool
	excelTrue      cell.Value
	excelFalse     cell.Value
	choices        []Choice
	formula        string

	codec codec
	err   error
}

func newColumn(kind Kind, attribute string, cellStyle string, opts []Option) *Column {
	c := &Column{
		kind:             kind,
		attribute:        attribute,
		width:            DefaultWidth,
		headerStyle:      style.HeaderName,
		cellStyle:        cellStyle,
		allowBlank:       true,
		ignoreForcedText: true,
		roundValue:       true,
		listValidation:   true,
		excelTrue:        cell.Bool(true),
		excelFalse:       cell.Bool(false),
		rowStyles:        map[any]RowStyle{},
	}
	switch kind {
	case KindDateTime, KindDate, KindYear, KindTime:
		c.headerStyle = style.HeaderCenterName
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// finish 构造 codec 并校验默认值
func (c *Column) finish(cd codec) *Column {
	c.codec = cd
	if c.err != nil {
		return c
	}
	if c.def != nil {
		if _, err := c.codec.encode(indirect(c.def), 0); err != nil {
			c.fail("invalid default value %v: %v", c.def, err)
		}
	}
	return c
}

func (c *Column) fail(format string, args ...any) {
	if c.err == nil {
		c.err = Error.New("%s: %s", c.String(), fmt.Sprintf(format, args...))
	}
}

// Err 列配置错误，表格构造时检查
func (c *Column) Err() error { return c.err }

func (c *Column) Kind() Kind { return c.kind }

func (c *Column) Attribute() string { return c.attribute }

// SetAttribute 设置对象属性名，只在未设置时生效
func (c *Column) SetAttribute(attribute string) {
	if c.attribute == "" {
		c.attribute = attribute
	}
}

// Header 表头：显式设置的表头、属性名，或者 ColumnN
func (c *Column) Header() string {
	switch {
	case c.header != "":
		return c.header
	case c.attribute != "":
		return c.attribute
	}
	return fmt.Sprintf("Column%d", c.index)
}

// SetHeader 表格处理重复表头时使用
func (c *Column) SetHeader(header string) { c.header = header }

// Index 列序号，从1开始，未加入表格时为0
func (c *Column) Index() int { return c.index }

// SetIndex 由所属的表格分配列序号
func (c *Column) SetIndex(i int) { c.index = i }

// Letter 列字母
func (c *Column) Letter() string {
	if c.index <= 0 {
		return ""
	}
	name, _ := excelize.ColumnNumberToName(c.index)
	return name
}

// Ref 单元格坐标
func (c *Column) Ref(row int) string {
	if c.index <= 0 || row <= 0 {
		return ""
	}
	ref, _ := excelize.CoordinatesToCellName(c.index, row)
	return ref
}

func (c *Column) Width() float64 { return c.width }

func (c *Column) Hidden() bool { return c.hidden }

func (c *Column) Grouped() bool { return c.group }

func (c *Column) Frozen() bool { return c.freeze }

func (c *Column) HeaderStyle() string { return c.headerStyle }

func (c *Column) Default() any { return c.def }

func (c *Column) AllowBlank() bool { return c.allowBlank }

// CellStyle 行类型对应的单元格样式
func (c *Column) CellStyle(rowType any) string {
	if rs, ok := c.rowStyle(rowType); ok && rs.CellStyle != "" {
		return rs.CellStyle
	}
	return c.cellStyle
}

// DataValidation 行类型对应的数据验证
func (c *Column) DataValidation(rowType any) *excelize.DataValidation {
	if rs, ok := c.rowStyle(rowType); ok && rs.DataValidation != nil {
		return rs.DataValidation
	}
	return c.dataValidation
}

// ConditionalFormat 行类型对应的条件格式
func (c *Column) ConditionalFormat(rowType any) *sheet.ConditionalFormat {
	if rs, ok := c.rowStyle(rowType); ok && rs.ConditionalFormat != nil {
		return rs.ConditionalFormat
	}
	return c.conditionalFormat
}

func (c *Column) getterFor(rowType any) Getter {
	if rs, ok := c.rowStyle(rowType); ok && rs.Getter != nil {
		return rs.Getter
	}
	return c.getter
}

func (c *Column) rowStyle(rowType any) (RowStyle, bool) {
	if rowType == nil || !reflect.TypeOf(rowType).Comparable() {
		return RowStyle{}, false
	}
	rs, ok := c.rowStyles[rowType]
	return rs, ok
}

// AddRowStyles 合并行类型覆盖配置，后加入的非空字段生效
func (c *Column) AddRowStyles(styles ...RowStyle) {
	for _, rs := range styles {
		if err := typed.Comparable("row type", rs.RowType); err != nil {
			c.fail("%v", err)
			continue
		}
		cur := c.rowStyles[rs.RowType]
		cur.RowType = rs.RowType
		if rs.Getter != nil {
			cur.Getter = rs.Getter
		}
		if rs.CellStyle != "" {
			cur.CellStyle = rs.CellStyle
		}
		if rs.DataValidation != nil {
			cur.DataValidation = rs.DataValidation
		}
		if rs.ConditionalFormat != nil {
			cur.ConditionalFormat = rs.ConditionalFormat
		}
		c.rowStyles[rs.RowType] = cur
	}
}

// InheritRowStyles 表格级别的行类型配置，只补充列上没有设置的字段
func (c *Column) InheritRowStyles(styles ...RowStyle) {
	for _, rs := range styles {
		cur, ok := c.rowStyles[rs.RowType]
		if !ok {
			c.AddRowStyles(rs)
			continue
		}
		if cur.Getter == nil {
			cur.Getter = rs.Getter
		}
		if cur.CellStyle == "" {
			cur.CellStyle = rs.CellStyle
		}
		if cur.DataValidation == nil {
			cur.DataValidation = rs.DataValidation
		}
		if cur.ConditionalFormat == nil {
			cur.ConditionalFormat = rs.ConditionalFormat
		}
		c.rowStyles[rs.RowType] = cur
	}
}

// RowStyles 所有行类型覆盖配置
func (c *Column) RowStyles() []RowStyle {
	res := make([]RowStyle, 0, len(c.rowStyles))
	for _, rs := range c.rowStyles {
		res = append(res, rs)
	}
	return res
}

// Styles 列引用到的全部样式名
func (c *Column) Styles() []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	add(c.headerStyle)
	add(c.cellStyle)
	if c.conditionalFormat != nil {
		add(c.conditionalFormat.Style)
	}
	for _, rs := range c.rowStyles {
		add(rs.CellStyle)
		if rs.ConditionalFormat != nil {
			add(rs.ConditionalFormat.Style)
		}
	}
	return names
}

// Clone 浅拷贝，表格持有自己的副本
func (c *Column) Clone() *Column {
	cp := *c
	cp.rowStyles = make(map[any]RowStyle, len(c.rowStyles))
	for k, v := range c.rowStyles {
		cp.rowStyles[k] = v
	}
	return &cp
}

// Value 从行对象取值
func (c *Column) Value(obj any, rowType any) any {
	switch c.kind {
	case KindFormula:
		return c.formula
	case KindEmpty:
		return nil
	}
	if g := c.getterFor(rowType); g != nil {
		return g(obj)
	}
	return lookup(obj, c.attribute, c.index)
}

// Encode 把内部值编码为单元格值，row 为0时错误信息中不包含坐标
func (c *Column) Encode(v any, row int) (cell.Value, error) {
	if isBlank(v) {
		switch {
		case c.def != nil:
			v = c.def
		case c.allowBlank:
			return cell.Blank(), nil
		default:
			return cell.Blank(), c.cellError(row, v, ErrBlankNotAllowed)
		}
	}
	out, err := c.codec.encode(indirect(v), row)
	if err != nil {
		return cell.Blank(), c.cellError(row, v, err)
	}
	return out, nil
}

// Decode 把单元格值解码为内部值
func (c *Column) Decode(raw cell.Value, row int) (any, error) {
	if c.ignoreForcedText && raw.Kind() == cell.KindText && strings.HasPrefix(raw.Text(), "'") {
		raw = cell.Text(raw.Text()[1:])
	}
	if raw.IsBlank() {
		switch {
		case c.def != nil:
			return c.def, nil
		case c.allowBlank:
			return nil, nil
		default:
			return nil, c.cellError(row, raw, ErrBlankNotAllowed)
		}
	}
	v, err := c.codec.decode(raw)
	if err != nil {
		return nil, c.cellError(row, raw, err)
	}
	return v, nil
}

// Cell 取值、编码并带上行类型对应的样式
func (c *Column) Cell(obj any, rowType any, row int) (sheet.Cell, error) {
	v, err := c.Encode(c.Value(obj, rowType), row)
	if err != nil {
		return sheet.Cell{}, err
	}
	return sheet.Cell{Value: v, Style: c.CellStyle(rowType)}, nil
}

func (c *Column) cellError(row int, v any, err error) *CellError {
	return &CellError{Column: c.Header(), Cell: c.Ref(row), Value: v, Err: err}
}

func (c *Column) String() string {
	name := c.header
	if name == "" {
		name = c.attribute
	}
	return fmt.Sprintf("%s(%s)", c.kind, name)
}

// isBlank nil、空字符串、空指针、空单元格
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case cell.Value:
		return t.IsBlank()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isBlank(rv.Elem().Interface())
	}
	return false
}

func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
