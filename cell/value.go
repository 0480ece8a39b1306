// Package cell 定义表格单元格在外部文档中的取值
package cell

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind 单元格取值类别
type Kind uint8

const (
	KindBlank Kind = iota
	KindText
	KindNumber
	KindBool
	KindTime
	KindFormula
)

var kindNames = [...]string{"blank", "text", "number", "bool", "time", "formula"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value 单元格原始值，只能是 Kind 中的一种
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	t    time.Time
}

// Blank 空单元格
func Blank() Value { return Value{} }

// Text 文本
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number 数字
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool 布尔
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time 日期时间，只有读取ISO日期单元格时才会出现
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Formula 公式，不带前导的 "="
func Formula(expr string) Value { return Value{kind: KindFormula, text: expr} }

func (v Value) Kind() Kind { return v.kind }

// IsBlank 空值或者空字符串
func (v Value) IsBlank() bool {
	return v.kind == KindBlank || (v.kind == KindText && v.text == "")
}

func (v Value) Text() string { return v.text }

func (v Value) Number() float64 { return v.num }

func (v Value) Bool() bool { return v.b }

func (v Value) Time() time.Time { return v.t }

func (v Value) Formula() string {
	if v.kind != KindFormula {
		return ""
	}
	return v.text
}

// Interface 转换为写入文档时使用的go值
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindFormula:
		return "=" + v.text
	}
	return nil
}

// Equal 同类别且取值相同
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return v.IsBlank() && o.IsBlank()
	}
	switch v.kind {
	case KindText, KindFormula:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	}
	return true
}

// String 单元格的文本形式，用于表头比较和错误信息
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindFormula:
		return "=" + v.text
	}
	return ""
}

// GoString 便于在测试失败信息里区分类别
func (v Value) GoString() string {
	return fmt.Sprintf("cell.%s(%q)", v.kind, v.String())
}

// Of 把常见的go值转换为单元格值
func Of(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Blank(), true
	case Value:
		return t, true
	case string:
		return Text(t), true
	case bool:
		return Bool(t), true
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int8:
		return Number(float64(t)), true
	case int16:
		return Number(float64(t)), true
	case int32:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case uint:
		return Number(float64(t)), true
	case uint8:
		return Number(float64(t)), true
	case uint16:
		return Number(float64(t)), true
	case uint32:
		return Number(float64(t)), true
	case uint64:
		return Number(float64(t)), true
	case time.Time:
		return Time(t), true
	case fmt.Stringer:
		return Text(t.String()), true
	}
	return Blank(), false
}
