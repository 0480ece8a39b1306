package schema

import (
	"reflect"
	"strings"
	"time"

	"github.com/opdss/xltable/column"
	"github.com/spf13/cast"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// FromStruct 按字段顺序从结构体标签生成 Schema
//
//	type Member struct {
//		Name  string    `table:"name,header=Name,freeze,required"`
//		Level string    `table:"level,kind=choice,choices=gold|silver"`
//		Note  string    `table:"-"`
//	}
//
// 没有 kind 时按字段类型推断，没有标签的导出字段以字段名作为属性名。
func FromStruct(name string, v any) (*Schema, error) {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, Error.New("%s: expected struct, got %T", name, v)
	}
	s := New(name)
	for _, f := range reflect.VisibleFields(rt) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag, ok := f.Tag.Lookup(column.TagName)
		if tag == "-" {
			continue
		}
		if !ok {
			tag = f.Name
		}
		def, err := parseTag(tag, f.Type)
		if err != nil {
			return nil, Error.New("%s.%s: %w", rt.Name(), f.Name, err)
		}
		if def.Attribute == "" {
			def.Attribute = f.Name
		}
		c, err := def.Column()
		if err != nil {
			return nil, err
		}
		s.Add(c)
	}
	return s, nil
}

func parseTag(tag string, typ reflect.Type) (ColumnDef, error) {
	parts := strings.Split(tag, ",")
	def := ColumnDef{Attribute: strings.TrimSpace(parts[0]), Kind: kindOf(typ)}
	for _, p := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(p), "=")
		var err error
		switch key {
		case "":
		case "kind":
			def.Kind = value
		case "header":
			def.Header = value
		case "width":
			def.Width, err = cast.ToFloat64E(value)
		case "hidden":
			def.Hidden = true
		case "group":
			def.Group = true
		case "freeze":
			def.Freeze = true
		case "required":
			def.AllowBlank = new(bool)
		case "default":
			def.Default = value
		case "max":
			def.MaxLength, err = cast.ToIntE(value)
		case "noround":
			def.Round = new(bool)
		case "strict":
			def.Strict = true
		case "style":
			def.CellStyle = value
		case "choices":
			for _, label := range strings.Split(value, "|") {
				def.Choices = append(def.Choices, ChoiceDef{Label: label})
			}
		default:
			return def, Error.New("unknown tag option %q", key)
		}
		if err != nil {
			return def, Error.New("tag option %q: %w", key, err)
		}
	}
	return def, nil
}

// kindOf 按 Go 类型推断列类型
func kindOf(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ {
	case timeType:
		return string(column.KindDateTime)
	case durationType:
		return string(column.KindTime)
	}
	switch typ.Kind() {
	case reflect.String:
		return string(column.KindChar)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return string(column.KindInt)
	case reflect.Float32, reflect.Float64:
		return string(column.KindFloat)
	case reflect.Bool:
		return string(column.KindBool)
	}
	return string(column.KindAny)
}
