package style

import (
	"fmt"
	"strings"
)

// DuplicateStyleNameError 重复声明同名样式
type DuplicateStyleNameError struct {
	Name string
}

func (e *DuplicateStyleNameError) Error() string {
	return fmt.Sprintf("style %q is already declared", e.Name)
}

// BaseStyleNotFoundError 继承的基础样式不存在
type BaseStyleNotFoundError struct {
	Name string
	Base string
}

func (e *BaseStyleNotFoundError) Error() string {
	return fmt.Sprintf("style %q extends unknown style %q", e.Name, e.Base)
}

// CyclicStyleInheritanceError 样式继承存在环
type CyclicStyleInheritanceError struct {
	Names []string
}

func (e *CyclicStyleInheritanceError) Error() string {
	return fmt.Sprintf("cyclic style inheritance between %s", strings.Join(e.Names, ", "))
}

// Cascade 收集样式声明，Resolve 时统一解析继承关系
type Cascade struct {
	order    []string
	concrete map[string]Style
	pending  map[string]Extension
	def      string
}

func NewCascade() *Cascade {
	return &Cascade{
		concrete: map[string]Style{},
		pending:  map[string]Extension{},
	}
}

// Declare 注册样式声明，扩展样式的基础样式可以稍后声明
func (c *Cascade) Declare(decls ...Declaration) error {
	for _, d := range decls {
		name := d.StyleName()
		if name == "" {
			return Error.New("style name is required")
		}
		if c.Has(name) {
			return &DuplicateStyleNameError{Name: name}
		}
		switch s := d.(type) {
		case Style:
			c.concrete[name] = s
		case *Style:
			c.concrete[name] = *s
		case Extension:
			c.pending[name] = s
		case *Extension:
			c.pending[name] = *s
		default:
			return Error.New("unsupported style declaration %T", d)
		}
		c.order = append(c.order, name)
	}
	return nil
}

// Has 是否已声明
func (c *Cascade) Has(name string) bool {
	_, ok := c.concrete[name]
	if !ok {
		_, ok = c.pending[name]
	}
	return ok
}

// SetDefault 查找不到样式时使用的默认样式
func (c *Cascade) SetDefault(name string) {
	c.def = name
}

// Resolve 解析所有扩展样式，生成样式集
func (c *Cascade) Resolve() (*Set, error) {
	resolved := make(map[string]Style, len(c.order))
	for name, s := range c.concrete {
		resolved[name] = s
	}
	queue := make([]Extension, 0, len(c.pending))
	for _, name := range c.order {
		if ext, ok := c.pending[name]; ok {
			queue = append(queue, ext)
		}
	}

	// 连续推迟的次数达到队列长度说明一整轮没有进展
	stalled := 0
	for len(queue) > 0 {
		ext := queue[0]
		queue = queue[1:]
		if base, ok := resolved[ext.Base]; ok {
			resolved[ext.Name] = Style{Name: ext.Name, Format: base.Format.Extend(ext.Format)}
			stalled = 0
			continue
		}
		if _, ok := c.pending[ext.Base]; !ok {
			return nil, &BaseStyleNotFoundError{Name: ext.Name, Base: ext.Base}
		}
		queue = append(queue, ext)
		stalled++
		if stalled >= len(queue) {
			names := make([]string, 0, len(queue))
			for _, e := range queue {
				names = append(names, e.Name)
			}
			return nil, &CyclicStyleInheritanceError{Names: names}
		}
	}

	if c.def != "" {
		if _, ok := resolved[c.def]; !ok {
			return nil, Error.New("default style %q is not declared", c.def)
		}
	}
	return newSet(c.order, resolved, c.def), nil
}

// Resolve 一次性声明并解析
func Resolve(decls ...Declaration) (*Set, error) {
	c := NewCascade()
	if err := c.Declare(decls...); err != nil {
		return nil, err
	}
	return c.Resolve()
}
