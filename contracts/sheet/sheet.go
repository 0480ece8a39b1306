package sheet

import (
	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/iterator"
	"github.com/opdss/xltable/style"
	"github.com/xuri/excelize/v2"
)

// Cell 已编码待写入的单元格
type Cell struct {
	Value cell.Value
	Style string //样式名，空表示不设置
}

// ConditionalFormat 条件格式，Style 为命中时使用的样式名
type ConditionalFormat struct {
	Style   string
	Options excelize.ConditionalFormatOptions
}

// Rows 按物理行顺序读取原始行，只能遍历一次
type Rows interface {
	iterator.Iterator[[]cell.Value]
	Err() error
	Close() error
}

// Sheet 表格写入读取所依赖的工作表操作，列号和行号都从1开始
type Sheet interface {
	Name() string
	// Styles 当前文档使用的样式集
	Styles() *style.Set

	Exists() bool
	// Empty 工作表不存在或者没有任何行
	Empty() (bool, error)
	GetOrCreate() error
	Remove() error

	// AppendRow 在最后一行之后追加一行，返回写入的行号
	AppendRow(cells []Cell) (row int, err error)
	// MergeRow 合并一行中的若干列
	MergeRow(row, firstCol, lastCol int) error
	Rows() (Rows, error)

	SetColWidth(col int, width float64) error
	SetColHidden(col int, hidden bool) error
	// GroupCols 设置列分组（大纲级别1），hidden 为 true 时折叠
	GroupCols(firstCol, lastCol int, hidden bool) error
	// HideColsFrom 隐藏 col 及其之后的所有列
	HideColsFrom(col int) error

	AddDataValidation(ref string, rule *excelize.DataValidation) error
	AddConditionalFormat(ref string, rule *ConditionalFormat) error
	SetTableRange(ref, name, styleName string) error
	// SetFreezePane 冻结左侧 cols 列和顶部 rows 行，都为0时取消冻结
	SetFreezePane(cols, rows int) error
	// SetPrintTitleRows 打印时每页重复的行
	SetPrintTitleRows(first, last int) error
}
