package column

import (
	"math"
	"strconv"
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cast"
)

// Int 整数列，读取结果为 int
func Int(attribute string, opts ...Option) *Column {
	c := newColumn(KindInt, attribute, style.RowIntegerName, opts)
	return c.finish(intCodec{round: c.roundValue})
}

// Float 小数列，读取结果为 float64
func Float(attribute string, opts ...Option) *Column {
	c := newColumn(KindFloat, attribute, style.RowDecimalName, opts)
	return c.finish(floatCodec{})
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

func fromCell(v cell.Value) (float64, bool) {
	switch v.Kind() {
	case cell.KindNumber:
		return v.Number(), true
	case cell.KindText:
		return toFloat(v.Text())
	case cell.KindBool:
		return toFloat(v.Bool())
	}
	return 0, false
}

type intCodec struct {
	round bool
}

func (ic intCodec) toInt(f float64) (int, error) {
	r := math.Round(f)
	// 超出 int 范围的值转换时会溢出
	if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
		return 0, &ParseError{Type: "int"}
	}
	if r != f && !ic.round {
		return 0, ErrRoundingRequired
	}
	return int(r), nil
}

func (ic intCodec) encode(v any, _ int) (cell.Value, error) {
	f, ok := toFloat(v)
	if !ok {
		return cell.Blank(), &ParseError{Type: "int"}
	}
	i, err := ic.toInt(f)
	if err != nil {
		return cell.Blank(), err
	}
	return cell.Number(float64(i)), nil
}

func (ic intCodec) decode(v cell.Value) (any, error) {
	f, ok := fromCell(v)
	if !ok {
		return nil, &ParseError{Type: "int"}
	}
	return ic.toInt(f)
}

type floatCodec struct{}

func (floatCodec) encode(v any, _ int) (cell.Value, error) {
	f, ok := toFloat(v)
	if !ok {
		return cell.Blank(), &ParseError{Type: "float"}
	}
	return cell.Number(f), nil
}

func (floatCodec) decode(v cell.Value) (any, error) {
	f, ok := fromCell(v)
	if !ok {
		return nil, &ParseError{Type: "float"}
	}
	return f, nil
}
