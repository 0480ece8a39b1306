package column

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cast"
)

// New 不做类型转换的列
func New(attribute string, opts ...Option) *Column {
	c := newColumn(KindAny, attribute, style.RowName, opts)
	return c.finish(anyCodec{})
}

// Char 单行文本
func Char(attribute string, opts ...Option) *Column {
	c := newColumn(KindChar, attribute, style.RowStringName, opts)
	return c.finish(textCodec{maxLength: c.maxLength})
}

// Text 自动换行的长文本
func Text(attribute string, opts ...Option) *Column {
	c := newColumn(KindText, attribute, style.RowTextName, opts)
	return c.finish(textCodec{maxLength: c.maxLength})
}

type textCodec struct {
	maxLength int
}

func (tc textCodec) check(s string) (string, error) {
	if tc.maxLength > 0 && utf8.RuneCountInString(s) > tc.maxLength {
		return "", ErrStringTooLong
	}
	return s, nil
}

func (tc textCodec) encode(v any, _ int) (cell.Value, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	case time.Time:
		s = t.Format(time.RFC3339)
	default:
		var err error
		if s, err = cast.ToStringE(v); err != nil {
			return cell.Blank(), &ParseError{Type: "string"}
		}
	}
	s, err := tc.check(s)
	if err != nil {
		return cell.Blank(), err
	}
	return cell.Text(s), nil
}

func (tc textCodec) decode(v cell.Value) (any, error) {
	return tc.check(v.String())
}

// anyCodec 原样写入和读取
type anyCodec struct{}

func (anyCodec) encode(v any, _ int) (cell.Value, error) {
	out, ok := cell.Of(v)
	if !ok {
		s, err := cast.ToStringE(v)
		if err != nil {
			return cell.Blank(), &ParseError{Type: "cell value"}
		}
		out = cell.Text(s)
	}
	return out, nil
}

func (anyCodec) decode(v cell.Value) (any, error) {
	switch v.Kind() {
	case cell.KindText:
		return v.Text(), nil
	case cell.KindNumber:
		return v.Number(), nil
	case cell.KindBool:
		return v.Bool(), nil
	case cell.KindTime:
		return v.Time(), nil
	case cell.KindFormula:
		return v.String(), nil
	}
	return nil, nil
}
