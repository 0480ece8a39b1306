package style

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

var borderStyles = map[string]int{
	"none":             0,
	"thin":             1,
	"medium":           2,
	"dashed":           3,
	"dotted":           4,
	"thick":            5,
	"double":           6,
	"hair":             7,
	"mediumDashed":     8,
	"dashDot":          9,
	"mediumDashDot":    10,
	"dashDotDot":       11,
	"mediumDashDotDot": 12,
	"slantDashDot":     13,
}

var fillPatterns = map[string]int{
	"none":            0,
	"solid":           1,
	"mediumGray":      2,
	"darkGray":        3,
	"lightGray":       4,
	"darkHorizontal":  5,
	"darkVertical":    6,
	"darkDown":        7,
	"darkUp":          8,
	"darkGrid":        9,
	"darkTrellis":     10,
	"lightHorizontal": 11,
	"lightVertical":   12,
	"lightDown":       13,
	"lightUp":         14,
	"lightGrid":       15,
	"lightTrellis":    16,
	"gray125":         17,
	"gray0625":        18,
}

// 内置数字格式
var builtinNumFmts = map[string]int{
	"General":  0,
	"0":        1,
	"0.00":     2,
	"#,##0":    3,
	"#,##0.00": 4,
	"0%":       9,
	"0.00%":    10,
	"@":        49,
}

// excelize 的颜色是 RGB，带透明度的 ARGB 去掉前两位
func rgb(color string) string {
	color = strings.TrimPrefix(color, "#")
	if len(color) == 8 {
		color = color[2:]
	}
	return strings.ToUpper(color)
}

// Excelize 转换为 excelize 的样式
func (f *Format) Excelize() *excelize.Style {
	s := &excelize.Style{}

	font := &excelize.Font{}
	if f.Font.Family != nil {
		font.Family = *f.Font.Family
	}
	if f.Font.Size != nil {
		font.Size = *f.Font.Size
	}
	if f.Font.Bold != nil {
		font.Bold = *f.Font.Bold
	}
	if f.Font.Italic != nil {
		font.Italic = *f.Font.Italic
	}
	if f.Font.Underline != nil {
		font.Underline = *f.Font.Underline
	}
	if f.Font.Strike != nil {
		font.Strike = *f.Font.Strike
	}
	if f.Font.Color != nil {
		font.Color = rgb(*f.Font.Color)
	}
	if *font != (excelize.Font{}) {
		s.Font = font
	}

	if f.Fill != nil {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: fillPatterns[f.Fill.Pattern], Color: []string{rgb(f.Fill.Color)}}
	}

	sides := []struct {
		typ  string
		side *Side
	}{
		{"left", f.Border.Left},
		{"right", f.Border.Right},
		{"top", f.Border.Top},
		{"bottom", f.Border.Bottom},
		{"diagonalDown", f.Border.Diagonal},
	}
	for _, sd := range sides {
		if sd.side == nil || borderStyles[sd.side.Style] == 0 {
			continue
		}
		s.Border = append(s.Border, excelize.Border{Type: sd.typ, Color: rgb(sd.side.Color), Style: borderStyles[sd.side.Style]})
	}

	align := &excelize.Alignment{}
	if f.Alignment.Horizontal != nil {
		align.Horizontal = *f.Alignment.Horizontal
	}
	if f.Alignment.Vertical != nil {
		align.Vertical = *f.Alignment.Vertical
	}
	if f.Alignment.WrapText != nil {
		align.WrapText = *f.Alignment.WrapText
	}
	if f.Alignment.ShrinkToFit != nil {
		align.ShrinkToFit = *f.Alignment.ShrinkToFit
	}
	if f.Alignment.Indent != nil {
		align.Indent = *f.Alignment.Indent
	}
	if f.Alignment.TextRotation != nil {
		align.TextRotation = *f.Alignment.TextRotation
	}
	if *align != (excelize.Alignment{}) {
		s.Alignment = align
	}

	if f.Protection.Locked != nil || f.Protection.Hidden != nil {
		// 未设置时保持 excel 的默认值：锁定、不隐藏
		p := &excelize.Protection{Locked: true}
		if f.Protection.Locked != nil {
			p.Locked = *f.Protection.Locked
		}
		if f.Protection.Hidden != nil {
			p.Hidden = *f.Protection.Hidden
		}
		s.Protection = p
	}

	if f.NumberFormat != "" {
		if id, ok := builtinNumFmts[f.NumberFormat]; ok {
			s.NumFmt = id
		} else {
			nf := f.NumberFormat
			s.CustomNumFmt = &nf
		}
	}
	return s
}
