package column

import (
	"reflect"
	"strings"
)

// TagName 结构体字段标签，值为列的属性名
const TagName = "table"

// Fielder 自定义按属性名取值的行对象
type Fielder interface {
	Field(name string) (any, bool)
}

// lookup 从行对象中按属性名或列序号取值，取不到时返回 nil
func lookup(obj any, attribute string, index int) any {
	if f, ok := obj.(Fielder); ok {
		v, _ := f.Field(attribute)
		return v
	}
	return lookupValue(reflect.ValueOf(obj), attribute, index)
}

func lookupValue(rv reflect.Value, attribute string, index int) any {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return lookupValue(rv.Elem(), attribute, index)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		v := rv.MapIndex(reflect.ValueOf(attribute).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	case reflect.Struct:
		return lookupField(rv, attribute)
	case reflect.Slice, reflect.Array:
		if index <= 0 || index > rv.Len() {
			return nil
		}
		return rv.Index(index - 1).Interface()
	}
	return nil
}

func lookupField(rv reflect.Value, attribute string) any {
	if attribute == "" {
		return nil
	}
	var byName []int
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		// 标签只有选项没有名称时按字段名匹配
		if name, _, _ := strings.Cut(f.Tag.Get(TagName), ","); name != "" {
			if name == attribute {
				return fieldValue(rv, f.Index)
			}
			continue
		}
		if byName == nil && strings.EqualFold(f.Name, attribute) {
			byName = f.Index
		}
	}
	if byName != nil {
		return fieldValue(rv, byName)
	}
	return nil
}

// fieldValue 嵌入的空指针字段视为取不到
func fieldValue(rv reflect.Value, index []int) any {
	v, err := rv.FieldByIndexErr(index)
	if err != nil {
		return nil
	}
	return v.Interface()
}
