package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/errs"
)

// Error 表格配置错误
var Error = errs.Class("table")

var (
	ErrNoColumns       = errors.New("table has no columns, declare at least one")
	ErrDuplicateHeader = errors.New("column headers are not unique")
	ErrMultipleFrozen  = errors.New("more than one frozen column")
	ErrHideLastColumn  = errors.New("the last column cannot be hidden or grouped when excess columns are hidden")
	ErrMaximumLimit    = errors.New("row count exceeds maximum limit")
)

// RowError 同一行的单元格错误
type RowError struct {
	Row   int
	Cells []error
}

func (e *RowError) Error() string {
	msgs := make([]string, len(e.Cells))
	for i, err := range e.Cells {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("row %d: %s", e.Row, strings.Join(msgs, "; "))
}

func (e *RowError) Unwrap() []error { return e.Cells }

// SheetError 一次读取中所有出错的行
type SheetError struct {
	Sheet string
	Rows  []*RowError
}

func (e *SheetError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sheet %q: %d invalid rows", e.Sheet, len(e.Rows))
	for _, r := range e.Rows {
		b.WriteString("\n\t")
		b.WriteString(r.Error())
	}
	return b.String()
}

func (e *SheetError) Unwrap() []error {
	res := make([]error, len(e.Rows))
	for i, r := range e.Rows {
		res[i] = r
	}
	return res
}

// HeaderNotFoundError 读取到结尾也没有找到表头
type HeaderNotFoundError struct {
	Sheet    string
	Expected []string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header row not found on sheet %q, make sure the following headers are present: %s",
		e.Sheet, strings.Join(e.Expected, ", "))
}
