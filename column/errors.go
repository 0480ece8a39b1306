package column

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/zeebo/errs"
)

// Error 列配置错误
var Error = errs.Class("column")

var (
	ErrBlankNotAllowed  = errors.New("blank value is not allowed")
	ErrStringTooLong    = errors.New("value is too long")
	ErrRoundingRequired = errors.New("value cannot be converted to an integer without rounding, enable rounding to do this automatically")
	ErrNoFormula        = errors.New("no formula specified")
)

// ParseError 无法转换为列的类型
type ParseError struct {
	Type string
}

func (e *ParseError) Error() string {
	return "unable to convert to " + e.Type
}

// IllegalChoiceError 不在可选值范围内
type IllegalChoiceError struct {
	Choices []string
}

func (e *IllegalChoiceError) Error() string {
	return fmt.Sprintf("not a legal choice, choices are [%s]", strings.Join(e.Choices, ", "))
}

// CellError 单个单元格的编码或解码错误
type CellError struct {
	Column string //表头
	Cell   string //单元格坐标，例如 B7，未写入时为空
	Value  any    //原始值
	Err    error
}

func (e *CellError) Error() string {
	loc := "column " + quote(e.Column)
	if e.Cell != "" {
		loc = "cell " + e.Cell
	}
	return fmt.Sprintf("%s: value %s: %v", loc, quote(display(e.Value)), e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case cell.Value:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

func quote(s string) string {
	return "'" + s + "'"
}
