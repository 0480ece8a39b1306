package table

import (
	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"go.uber.org/zap"
)

type ReadOption func(opt *readOptions)

type readOptions struct {
	policy         ExceptionPolicy
	lookForHeaders bool
}

// WithPolicy 本次读取使用的异常处理方式
func WithPolicy(p ExceptionPolicy) ReadOption {
	return func(opt *readOptions) {
		if p.Valid() {
			opt.policy = p
		}
	}
}

// WithHeaderLookup 本次读取是否查找表头
func WithHeaderLookup(enabled bool) ReadOption {
	return func(opt *readOptions) {
		opt.lookForHeaders = enabled
	}
}

// Reader 逐行读取工作表，只能遍历一次
type Reader struct {
	t      *Table
	sh     sheet.Sheet
	opts   readOptions
	rows   sheet.Rows
	rowNum int

	headerFound bool
	cur         *Record
	rowErrs     []*RowError
	blanks      []int
	held        *pendingRow
	err         error
	done        bool
}

// Read 返回惰性读取的 Reader，在第一次调用 Next 时才开始读取
func (t *Table) Read(sh sheet.Sheet, opts ...ReadOption) *Reader {
	ro := readOptions{policy: t.options.policy, lookForHeaders: t.options.lookForHeaders}
	for i := range opts {
		opts[i](&ro)
	}
	return &Reader{t: t, sh: sh, opts: ro, headerFound: !ro.lookForHeaders}
}

// Next 读取下一条记录，出错或者读完时返回 false，之后通过 Err 获取错误
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	if r.rows == nil {
		rows, err := r.sh.Rows()
		if err != nil {
			return r.fail(err)
		}
		r.rows = rows
	}
	for !r.headerFound {
		if !r.rows.Next() {
			if err := r.rows.Err(); err != nil {
				return r.fail(err)
			}
			return r.fail(&HeaderNotFoundError{Sheet: r.sh.Name(), Expected: r.t.Headers()})
		}
		r.rowNum++
		r.headerFound = r.t.isHeader(r.rows.Value())
	}
	for {
		num, raw, ok := r.nextRow()
		if !ok {
			break
		}
		rec, cellErrs, fatal := r.decode(num, raw)
		if fatal != nil {
			return r.fail(fatal)
		}
		if len(cellErrs) == 0 {
			r.cur = rec
			return true
		}
		rowErr := &RowError{Row: num, Cells: cellErrs}
		switch {
		case r.opts.policy.Satisfies(RaiseRowException):
			return r.fail(rowErr)
		case r.opts.policy.Satisfies(RaiseSheetException):
			r.rowErrs = append(r.rowErrs, rowErr)
		default:
			r.t.logger.Debug("row ignored", zap.String("sheet", r.sh.Name()), zap.Int("row", num), zap.Error(rowErr))
		}
	}
	if err := r.rows.Err(); err != nil {
		return r.fail(err)
	}
	if len(r.rowErrs) > 0 {
		return r.fail(&SheetError{Sheet: r.sh.Name(), Rows: r.rowErrs})
	}
	r.finish()
	return false
}

// nextRow 返回下一行及其行号
//
// 空行先暂存，后面还有非空行时按顺序逐行解码，工作表末尾的空行忽略。
func (r *Reader) nextRow() (int, []cell.Value, bool) {
	if r.held != nil {
		if len(r.blanks) > 0 {
			num := r.blanks[0]
			r.blanks = r.blanks[1:]
			return num, nil, true
		}
		h := r.held
		r.held = nil
		return h.num, h.raw, true
	}
	for r.rows.Next() {
		r.rowNum++
		raw := r.rows.Value()
		if !blankRow(raw) {
			if len(r.blanks) == 0 {
				return r.rowNum, raw, true
			}
			r.held = &pendingRow{num: r.rowNum, raw: raw}
			return r.nextRow()
		}
		r.blanks = append(r.blanks, r.rowNum)
	}
	return 0, nil, false
}

type pendingRow struct {
	num int
	raw []cell.Value
}

// decode 单元格错误按异常处理方式收集或者直接返回
func (r *Reader) decode(num int, raw []cell.Value) (*Record, []error, error) {
	rec := newRecord(r.t, num)
	var cellErrs []error
	for i, c := range r.t.columns {
		v := cell.Blank()
		if i < len(raw) {
			v = raw[i]
		}
		val, err := c.Decode(v, num)
		if err != nil {
			if r.opts.policy.Satisfies(RaiseCellException) {
				return nil, nil, err
			}
			cellErrs = append(cellErrs, err)
			continue
		}
		rec.values[i] = val
	}
	return rec, cellErrs, nil
}

func (r *Reader) fail(err error) bool {
	r.err = err
	r.finish()
	return false
}

func (r *Reader) finish() {
	r.cur = nil
	r.done = true
	if err := r.Close(); err != nil && r.err == nil {
		r.err = err
	}
}

// Value 当前记录
func (r *Reader) Value() *Record { return r.cur }

// Err 读取结束后的错误
func (r *Reader) Err() error { return r.err }

// Close 释放底层的行读取器，可以重复调用
func (r *Reader) Close() error {
	r.done = true
	if r.rows == nil {
		return nil
	}
	rows := r.rows
	r.rows = nil
	return rows.Close()
}

// All 读取剩余的全部记录
func (r *Reader) All() ([]*Record, error) {
	var res []*Record
	for r.Next() {
		res = append(res, r.Value())
	}
	return res, r.Err()
}

func (t *Table) isHeader(raw []cell.Value) bool {
	for i, c := range t.columns {
		v := cell.Blank()
		if i < len(raw) {
			v = raw[i]
		}
		if v.String() != c.Header() {
			return false
		}
	}
	return true
}

func blankRow(raw []cell.Value) bool {
	for _, v := range raw {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}
