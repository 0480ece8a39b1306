package column

import (
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Bool 布尔列，默认写入 TRUE/FALSE 并添加下拉验证
func Bool(attribute string, opts ...Option) *Column {
	c := newColumn(KindBool, attribute, style.RowName, opts)
	if c.listValidation && c.dataValidation == nil {
		c.dataValidation = dropList(c, c.excelTrue.String(), c.excelFalse.String())
	}
	return c.finish(boolCodec{t: c.excelTrue, f: c.excelFalse, strict: c.strict})
}

func dropList(c *Column, items ...string) *excelize.DataValidation {
	dv := excelize.NewDataValidation(true)
	if err := dv.SetDropList(items); err != nil {
		c.fail("list validation: %v", err)
		return nil
	}
	return dv
}

type boolCodec struct {
	t, f   cell.Value
	strict bool
}

func (bc boolCodec) encode(v any, _ int) (cell.Value, error) {
	if cv, ok := cell.Of(v); ok && cv.Kind() != cell.KindBool {
		switch {
		case cv.Equal(bc.t):
			return bc.t, nil
		case cv.Equal(bc.f):
			return bc.f, nil
		}
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return cell.Blank(), &ParseError{Type: "boolean"}
	}
	if b {
		return bc.t, nil
	}
	return bc.f, nil
}

func (bc boolCodec) decode(v cell.Value) (any, error) {
	switch {
	case v.Kind() == cell.KindBool:
		return v.Bool(), nil
	case v.Equal(bc.t):
		return true, nil
	case v.Equal(bc.f):
		return false, nil
	case bc.t.Kind() == cell.KindBool && v.Kind() == cell.KindText && isBoolText(v.Text()):
		// 文本格式的 TRUE/FALSE，例如 CSV
		return strings.EqualFold(v.Text(), "true"), nil
	case bc.strict:
		return nil, &ParseError{Type: "boolean"}
	}
	switch v.Kind() {
	case cell.KindNumber:
		return v.Number() != 0, nil
	case cell.KindText:
		if b, err := cast.ToBoolE(v.Text()); err == nil {
			return b, nil
		}
		return v.Text() != "", nil
	}
	return nil, &ParseError{Type: "boolean"}
}

func isBoolText(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}
