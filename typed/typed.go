// Package typed 校验配置项的取值类型
package typed

import (
	"fmt"
	"reflect"
	"strings"
)

// Scalars 字符串、布尔和所有数字类型
var Scalars = []reflect.Kind{
	reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	reflect.Float32, reflect.Float64,
	reflect.String, reflect.Bool,
}

// Attribute 描述一个配置项允许的取值类型
type Attribute struct {
	Name     string
	Kinds    []reflect.Kind
	Types    []reflect.Type
	AllowNil bool
}

// New 按 reflect.Kind 限定取值
func New(name string, allowNil bool, kinds ...reflect.Kind) Attribute {
	return Attribute{Name: name, Kinds: kinds, AllowNil: allowNil}
}

// OfType 按具体类型限定取值，例如 time.Time
func OfType(name string, allowNil bool, types ...reflect.Type) Attribute {
	return Attribute{Name: name, Types: types, AllowNil: allowNil}
}

// Or 合并另一个配置项允许的类型
func (a Attribute) Or(kinds ...reflect.Kind) Attribute {
	a.Kinds = append(append([]reflect.Kind{}, a.Kinds...), kinds...)
	return a
}

// Check 校验取值，失败返回 *Error
func (a Attribute) Check(v any) error {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv = reflect.Value{}
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		if a.AllowNil {
			return nil
		}
		return &Error{Attribute: a, Nil: true}
	}
	if len(a.Kinds) == 0 && len(a.Types) == 0 {
		return nil
	}
	for _, k := range a.Kinds {
		if rv.Kind() == k {
			return nil
		}
	}
	for _, t := range a.Types {
		if rv.Type() == t {
			return nil
		}
	}
	return &Error{Attribute: a, Got: rv.Type()}
}

// Comparable 校验取值可以作为map的key
func Comparable(name string, v any) error {
	if v == nil {
		return nil
	}
	if t := reflect.TypeOf(v); !t.Comparable() {
		return &Error{Attribute: Attribute{Name: name}, Got: t, NotComparable: true}
	}
	return nil
}

// Error 取值类型不符合要求
type Error struct {
	Attribute     Attribute
	Got           reflect.Type
	Nil           bool
	NotComparable bool
}

func (e *Error) Error() string {
	switch {
	case e.Nil:
		return fmt.Sprintf("%s: value is required", e.Attribute.Name)
	case e.NotComparable:
		return fmt.Sprintf("%s: %s is not comparable", e.Attribute.Name, e.Got)
	}
	expected := make([]string, 0, len(e.Attribute.Kinds)+len(e.Attribute.Types))
	for _, k := range e.Attribute.Kinds {
		expected = append(expected, k.String())
	}
	for _, t := range e.Attribute.Types {
		expected = append(expected, t.String())
	}
	return fmt.Sprintf("%s: expected one of [%s], got %s", e.Attribute.Name, strings.Join(expected, ", "), e.Got)
}
