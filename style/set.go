package style

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StyleNotFoundError 样式集中没有该样式
type StyleNotFoundError struct {
	Sheet     string
	Name      string
	Available []string
}

func (e *StyleNotFoundError) Error() string {
	prefix := ""
	if e.Sheet != "" {
		prefix = fmt.Sprintf("sheet %q: ", e.Sheet)
	}
	return fmt.Sprintf("%sstyle %q not found, available styles: %s", prefix, e.Name, strings.Join(e.Available, ", "))
}

// Set 解析完成的样式集，只读
type Set struct {
	order  []string
	styles map[string]Style
	// 属性相同的样式共用同一个 *Format
	formats map[string]*Format
	byName  map[string]*Format
	def     string
}

func newSet(order []string, styles map[string]Style, def string) *Set {
	s := &Set{
		order:   order,
		styles:  styles,
		formats: map[string]*Format{},
		byName:  make(map[string]*Format, len(styles)),
		def:     def,
	}
	for _, name := range order {
		f := styles[name].Format
		key := f.Key()
		shared, ok := s.formats[key]
		if !ok {
			shared = &f
			s.formats[key] = shared
		}
		s.byName[name] = shared
	}
	return s
}

// Lookup 查找样式，不存在时返回默认样式
func (s *Set) Lookup(name string) (Style, error) {
	if st, ok := s.styles[name]; ok {
		return st, nil
	}
	if s.def != "" {
		return s.styles[s.def], nil
	}
	return Style{}, &StyleNotFoundError{Name: name, Available: s.Sorted()}
}

// Format 查找样式属性，同样属性的不同样式返回同一个指针
func (s *Set) Format(name string) (*Format, error) {
	if f, ok := s.byName[name]; ok {
		return f, nil
	}
	if s.def != "" {
		return s.byName[s.def], nil
	}
	return nil, &StyleNotFoundError{Name: name, Available: s.Sorted()}
}

// Has 样式是否存在，不考虑默认样式
func (s *Set) Has(name string) bool {
	_, ok := s.styles[name]
	return ok
}

// Default 默认样式名，未设置时为空
func (s *Set) Default() string { return s.def }

// Names 按声明顺序返回样式名
func (s *Set) Names() []string {
	return slices.Clone(s.order)
}

// Sorted 按字母顺序返回样式名
func (s *Set) Sorted() []string {
	names := maps.Keys(s.styles)
	slices.Sort(names)
	return names
}

// Len 样式数量
func (s *Set) Len() int { return len(s.order) }

// Distinct 去重后的样式属性数量
func (s *Set) Distinct() int { return len(s.formats) }
