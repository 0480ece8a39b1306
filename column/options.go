package column

import (
	"reflect"
	"time"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/typed"
	"github.com/xuri/excelize/v2"
)

var (
	defaultAttr    = typed.OfType("default", true, reflect.TypeOf(time.Time{})).Or(typed.Scalars...)
	excelValueAttr = typed.New("excel value", false, typed.Scalars...)
)

type Option func(c *Column)

// WithHeader 表头文字
func WithHeader(header string) Option {
	return func(c *Column) {
		c.header = header
	}
}

// WithWidth 列宽
func WithWidth(width float64) Option {
	return func(c *Column) {
		if width <= 0 {
			c.fail("width must be positive, got %v", width)
			return
		}
		c.width = width
	}
}

// WithHidden 隐藏列
func WithHidden() Option {
	return func(c *Column) {
		c.hidden = true
	}
}

// WithGroup 列分组，分组的列隐藏时折叠
func WithGroup() Option {
	return func(c *Column) {
		c.group = true
	}
}

// WithFreeze 冻结该列及其左侧的列，一个表格最多一列
func WithFreeze() Option {
	return func(c *Column) {
		c.freeze = true
	}
}

func WithHeaderStyle(name string) Option {
	return func(c *Column) {
		c.headerStyle = name
	}
}

func WithCellStyle(name string) Option {
	return func(c *Column) {
		c.cellStyle = name
	}
}

// WithDefault 空值时使用的内部值
func WithDefault(v any) Option {
	return func(c *Column) {
		if err := defaultAttr.Check(v); err != nil {
			c.fail("%v", err)
			return
		}
		c.def = v
	}
}

// WithAllowBlank 是否允许空值，默认允许
func WithAllowBlank(allow bool) Option {
	return func(c *Column) {
		c.allowBlank = allow
	}
}

// WithForcedText 读取时保留文本前导的单引号
func WithForcedText() Option {
	return func(c *Column) {
		c.ignoreForcedText = false
	}
}

// WithGetter 自定义取值
func WithGetter(g Getter) Option {
	return func(c *Column) {
		c.getter = g
	}
}

// WithDataValidation 数据验证，写入时应用到所有数据单元格
func WithDataValidation(dv *excelize.DataValidation) Option {
	return func(c *Column) {
		c.dataValidation = dv
	}
}

// WithConditionalFormat 条件格式
func WithConditionalFormat(cf *sheet.ConditionalFormat) Option {
	return func(c *Column) {
		c.conditionalFormat = cf
	}
}

// WithRowStyles 行类型覆盖配置
func WithRowStyles(styles ...RowStyle) Option {
	return func(c *Column) {
		c.AddRowStyles(styles...)
	}
}

// WithMaxLength 文本最大长度（字符数）
func WithMaxLength(n int) Option {
	return func(c *Column) {
		if n < 0 {
			c.fail("max length must not be negative, got %d", n)
			return
		}
		c.maxLength = n
	}
}

// WithRoundValue 整数列是否自动四舍五入，默认是
func WithRoundValue(round bool) Option {
	return func(c *Column) {
		c.roundValue = round
	}
}

// WithStrict 布尔列只接受配置的真假值
func WithStrict() Option {
	return func(c *Column) {
		c.strict = true
	}
}

// WithExcelValues 布尔列在文档中的真假值
func WithExcelValues(t, f any) Option {
	return func(c *Column) {
		for _, v := range []any{t, f} {
			if err := excelValueAttr.Check(v); err != nil {
				c.fail("%v", err)
				return
			}
		}
		tv, ok1 := cell.Of(t)
		fv, ok2 := cell.Of(f)
		if !ok1 || !ok2 || tv.IsBlank() || fv.IsBlank() {
			c.fail("unsupported boolean values %v/%v", t, f)
			return
		}
		if tv.Equal(fv) {
			c.fail("boolean values must differ, got %v twice", t)
			return
		}
		c.excelTrue, c.excelFalse = tv, fv
	}
}

// WithListValidation 布尔列和选项列是否自动添加下拉验证，默认是
func WithListValidation(enabled bool) Option {
	return func(c *Column) {
		c.listValidation = enabled
	}
}
