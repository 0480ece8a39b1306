package column

import (
	"strconv"
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
)

// RowPlaceholder 公式中替换为当前行号的占位符
const RowPlaceholder = "{row}"

// Formula 公式列，写入时把 {row} 替换为行号，读取时返回单元格的值
func Formula(attribute string, formula string, opts ...Option) *Column {
	c := newColumn(KindFormula, attribute, style.RowName, opts)
	c.formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	if c.formula == "" && c.err == nil {
		c.err = Error.Wrap(ErrNoFormula)
	}
	return c.finish(formulaCodec{})
}

// Empty 占位列，写入空单元格，读取时忽略
func Empty(attribute string, opts ...Option) *Column {
	c := newColumn(KindEmpty, attribute, style.EmptyName, opts)
	c.allowBlank = true
	c.def = nil
	return c.finish(emptyCodec{})
}

type formulaCodec struct{}

func (formulaCodec) encode(v any, row int) (cell.Value, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return cell.Blank(), ErrNoFormula
	}
	if row > 0 {
		s = strings.ReplaceAll(s, RowPlaceholder, strconv.Itoa(row))
	}
	return cell.Formula(s), nil
}

func (formulaCodec) decode(v cell.Value) (any, error) {
	return anyCodec{}.decode(v)
}

type emptyCodec struct{}

func (emptyCodec) encode(any, int) (cell.Value, error) { return cell.Blank(), nil }

func (emptyCodec) decode(cell.Value) (any, error) { return nil, nil }
