package table

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/opdss/xltable/column"
	"github.com/spf13/cast"
)

// Record 读取得到的一行，字段名为列的属性名
type Record struct {
	Row    int //工作表中的行号
	fields []string
	values []any
	index  map[string]int
}

func newRecord(t *Table, row int) *Record {
	r := &Record{
		Row:    row,
		fields: make([]string, len(t.columns)),
		values: make([]any, len(t.columns)),
		index:  make(map[string]int, len(t.columns)),
	}
	for i, c := range t.columns {
		name := field(c)
		r.fields[i] = name
		if _, ok := r.index[name]; !ok {
			r.index[name] = i
		}
	}
	return r
}

// Field 实现 column.Fielder，使记录可以直接写回表格
func (r *Record) Field(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Get 字段值，不存在时返回 nil
func (r *Record) Get(name string) any {
	v, _ := r.Field(name)
	return v
}

func (r *Record) Fields() []string { return append([]string(nil), r.fields...) }

func (r *Record) Values() []any { return append([]any(nil), r.values...) }

func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, f := range r.fields {
		if _, ok := m[f]; !ok {
			m[f] = r.values[i]
		}
	}
	return m
}

func (r *Record) String() string {
	parts := make([]string, len(r.fields))
	for i, f := range r.fields {
		parts[i] = fmt.Sprintf("%s=%v", f, r.values[i])
	}
	return fmt.Sprintf("Record(row=%d, %s)", r.Row, strings.Join(parts, ", "))
}

// Decode 把记录复制到结构体，字段按 `table` 标签或者不区分大小写的字段名匹配
func (r *Record) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return Error.New("decode target must be a non-nil pointer to struct, got %T", dst)
	}
	rv = rv.Elem()
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get(column.TagName), ",")
		tagged := name != ""
		if name == "-" {
			continue
		}
		if !tagged {
			name = f.Name
		}
		i, ok := r.index[name]
		if !ok && !tagged {
			for j, fn := range r.fields {
				if strings.EqualFold(fn, name) {
					i, ok = j, true
					break
				}
			}
		}
		if !ok || r.values[i] == nil {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			continue
		}
		if err := assign(fv, r.values[i]); err != nil {
			return Error.New("row %d: field %s: %v", r.Row, f.Name, err)
		}
	}
	return nil
}

func assign(dst reflect.Value, v any) error {
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	src := reflect.ValueOf(v)
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
		return nil
	case isNumber(src.Kind()) && isNumber(dst.Kind()):
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	var (
		out any
		err error
	)
	switch dst.Kind() {
	case reflect.String:
		out, err = cast.ToStringE(v)
	case reflect.Bool:
		out, err = cast.ToBoolE(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out, err = cast.ToInt64E(v)
	case reflect.Float32, reflect.Float64:
		out, err = cast.ToFloat64E(v)
	default:
		return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
	}
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(out).Convert(dst.Type()))
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
