// Package style 命名样式的声明、继承与解析
package style

import (
	"encoding/json"

	"github.com/zeebo/errs"
)

// Error 样式配置错误
var Error = errs.Class("style")

// Font 字体，nil 表示未设置
type Font struct {
	Family    *string  `json:"family,omitempty" yaml:"family"`
	Size      *float64 `json:"size,omitempty" yaml:"size"`
	Bold      *bool    `json:"bold,omitempty" yaml:"bold"`
	Italic    *bool    `json:"italic,omitempty" yaml:"italic"`
	Underline *string  `json:"underline,omitempty" yaml:"underline"`
	Strike    *bool    `json:"strike,omitempty" yaml:"strike"`
	Color     *string  `json:"color,omitempty" yaml:"color"`
}

func (f Font) merge(o Font) Font {
	if o.Family != nil {
		f.Family = o.Family
	}
	if o.Size != nil {
		f.Size = o.Size
	}
	if o.Bold != nil {
		f.Bold = o.Bold
	}
	if o.Italic != nil {
		f.Italic = o.Italic
	}
	if o.Underline != nil {
		f.Underline = o.Underline
	}
	if o.Strike != nil {
		f.Strike = o.Strike
	}
	if o.Color != nil {
		f.Color = o.Color
	}
	return f
}

// Fill 填充，整体覆盖不做合并
type Fill struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Color   string `json:"color" yaml:"color"`
}

// Side 一条边框
type Side struct {
	Style string `json:"style" yaml:"style"`
	Color string `json:"color,omitempty" yaml:"color"`
}

// Border 边框，按边合并
type Border struct {
	Left     *Side `json:"left,omitempty" yaml:"left"`
	Right    *Side `json:"right,omitempty" yaml:"right"`
	Top      *Side `json:"top,omitempty" yaml:"top"`
	Bottom   *Side `json:"bottom,omitempty" yaml:"bottom"`
	Diagonal *Side `json:"diagonal,omitempty" yaml:"diagonal"`
}

func (b Border) merge(o Border) Border {
	if o.Left != nil {
		b.Left = o.Left
	}
	if o.Right != nil {
		b.Right = o.Right
	}
	if o.Top != nil {
		b.Top = o.Top
	}
	if o.Bottom != nil {
		b.Bottom = o.Bottom
	}
	if o.Diagonal != nil {
		b.Diagonal = o.Diagonal
	}
	return b
}

// Alignment 对齐
type Alignment struct {
	Horizontal   *string `json:"horizontal,omitempty" yaml:"horizontal"`
	Vertical     *string `json:"vertical,omitempty" yaml:"vertical"`
	WrapText     *bool   `json:"wrap_text,omitempty" yaml:"wrap_text"`
	ShrinkToFit  *bool   `json:"shrink_to_fit,omitempty" yaml:"shrink_to_fit"`
	Indent       *int    `json:"indent,omitempty" yaml:"indent"`
	TextRotation *int    `json:"text_rotation,omitempty" yaml:"text_rotation"`
}

func (a Alignment) merge(o Alignment) Alignment {
	if o.Horizontal != nil {
		a.Horizontal = o.Horizontal
	}
	if o.Vertical != nil {
		a.Vertical = o.Vertical
	}
	if o.WrapText != nil {
		a.WrapText = o.WrapText
	}
	if o.ShrinkToFit != nil {
		a.ShrinkToFit = o.ShrinkToFit
	}
	if o.Indent != nil {
		a.Indent = o.Indent
	}
	if o.TextRotation != nil {
		a.TextRotation = o.TextRotation
	}
	return a
}

// Protection 单元格保护
type Protection struct {
	Locked *bool `json:"locked,omitempty" yaml:"locked"`
	Hidden *bool `json:"hidden,omitempty" yaml:"hidden"`
}

func (p Protection) merge(o Protection) Protection {
	if o.Locked != nil {
		p.Locked = o.Locked
	}
	if o.Hidden != nil {
		p.Hidden = o.Hidden
	}
	return p
}

// Format 样式的全部属性
type Format struct {
	Font         Font       `json:"font" yaml:"font"`
	Fill         *Fill      `json:"fill,omitempty" yaml:"fill"`
	Border       Border     `json:"border" yaml:"border"`
	Alignment    Alignment  `json:"alignment" yaml:"alignment"`
	NumberFormat string     `json:"number_format,omitempty" yaml:"number_format"`
	Protection   Protection `json:"protection" yaml:"protection"`
}

// Extend 以 f 为基础叠加 o 中设置了的属性
func (f Format) Extend(o Format) Format {
	f.Font = f.Font.merge(o.Font)
	if o.Fill != nil {
		f.Fill = o.Fill
	}
	f.Border = f.Border.merge(o.Border)
	f.Alignment = f.Alignment.merge(o.Alignment)
	if o.NumberFormat != "" {
		f.NumberFormat = o.NumberFormat
	}
	f.Protection = f.Protection.merge(o.Protection)
	return f
}

// Key 属性完全相同的样式 Key 相同
func (f Format) Key() string {
	b, _ := json.Marshal(f)
	return string(b)
}

// Declaration 样式声明，Style 或者 Extension
type Declaration interface {
	StyleName() string
}

// Style 具体样式
type Style struct {
	Name string
	Format
}

func (s Style) StyleName() string { return s.Name }

// Extension 基于 Base 的稀疏覆盖
type Extension struct {
	Base string
	Name string
	Format
}

func (e Extension) StyleName() string { return e.Name }

// 构造指针属性的快捷方法

func Bool(b bool) *bool { return &b }

func String(s string) *string { return &s }

func Float(f float64) *float64 { return &f }

func Int(i int) *int { return &i }

// Solid 纯色填充
func Solid(color string) *Fill { return &Fill{Pattern: "solid", Color: color} }

// Box 四周同样的边框
func Box(style, color string) Border {
	s := &Side{Style: style, Color: color}
	return Border{Left: s, Right: s, Top: s, Bottom: s}
}
