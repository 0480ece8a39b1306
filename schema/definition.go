package schema

import (
	"strings"

	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/typed"
)

// YAML 里的取值只允许标量
var (
	defaultValue = typed.New("default", true, typed.Scalars...)
	trueValue    = typed.New("true_value", true, typed.Scalars...)
	falseValue   = typed.New("false_value", true, typed.Scalars...)
	choiceValue  = typed.New("choices.value", true, typed.Scalars...)
)

// ColumnDef 列的声明式定义，YAML 和结构体标签都解析为它
type ColumnDef struct {
	Attribute      string      `yaml:"attribute"`
	Kind           string      `yaml:"kind"`
	Header         string      `yaml:"header"`
	Width          float64     `yaml:"width"`
	Hidden         bool        `yaml:"hidden"`
	Group          bool        `yaml:"group"`
	Freeze         bool        `yaml:"freeze"`
	HeaderStyle    string      `yaml:"header_style"`
	CellStyle      string      `yaml:"cell_style"`
	Default        any         `yaml:"default"`
	AllowBlank     *bool       `yaml:"allow_blank"`
	ForcedText     bool        `yaml:"forced_text"`
	MaxLength      int         `yaml:"max_length"`
	Round          *bool       `yaml:"round"`
	Strict         bool        `yaml:"strict"`
	TrueValue      any         `yaml:"true_value"`
	FalseValue     any         `yaml:"false_value"`
	ListValidation *bool       `yaml:"list_validation"`
	Choices        []ChoiceDef `yaml:"choices"`
	Formula        string      `yaml:"formula"`
}

type ChoiceDef struct {
	Value any    `yaml:"value"`
	Label string `yaml:"label"`
}

// Column 按类型构造列，配置错误由列的 Err 返回
func (d ColumnDef) Column() (*column.Column, error) {
	attr := d.Attribute
	if err := d.check(); err != nil {
		return nil, Error.New("column %q: %w", attr, err)
	}
	opts := d.options()
	switch column.Kind(strings.ToLower(strings.TrimSpace(d.Kind))) {
	case "", column.KindAny:
		return column.New(attr, opts...), nil
	case column.KindChar, "string":
		return column.Char(attr, opts...), nil
	case column.KindText:
		return column.Text(attr, opts...), nil
	case column.KindInt, "integer":
		return column.Int(attr, opts...), nil
	case column.KindFloat, "decimal", "number":
		return column.Float(attr, opts...), nil
	case column.KindBool, "boolean":
		return column.Bool(attr, opts...), nil
	case column.KindChoice:
		choices := make([]column.Choice, len(d.Choices))
		for i, ch := range d.Choices {
			choices[i] = column.Choice{Value: ch.Value, Label: ch.Label}
			if ch.Value == nil {
				choices[i].Value = ch.Label
			}
		}
		return column.ChoiceOf(attr, choices, opts...), nil
	case column.KindDateTime:
		return column.DateTime(attr, opts...), nil
	case column.KindDate:
		return column.Date(attr, opts...), nil
	case column.KindYear:
		return column.Year(attr, opts...), nil
	case column.KindTime:
		return column.Time(attr, opts...), nil
	case column.KindFormula:
		return column.Formula(attr, d.Formula, opts...), nil
	case column.KindEmpty:
		return column.Empty(attr, opts...), nil
	}
	return nil, Error.New("column %q: unknown kind %q", attr, d.Kind)
}

func (d ColumnDef) check() error {
	if err := defaultValue.Check(d.Default); err != nil {
		return err
	}
	if err := trueValue.Check(d.TrueValue); err != nil {
		return err
	}
	if err := falseValue.Check(d.FalseValue); err != nil {
		return err
	}
	for _, ch := range d.Choices {
		if err := choiceValue.Check(ch.Value); err != nil {
			return err
		}
	}
	return nil
}

func (d ColumnDef) options() []column.Option {
	var opts []column.Option
	if d.Header != "" {
		opts = append(opts, column.WithHeader(d.Header))
	}
	if d.Width != 0 {
		opts = append(opts, column.WithWidth(d.Width))
	}
	if d.Hidden {
		opts = append(opts, column.WithHidden())
	}
	if d.Group {
		opts = append(opts, column.WithGroup())
	}
	if d.Freeze {
		opts = append(opts, column.WithFreeze())
	}
	if d.HeaderStyle != "" {
		opts = append(opts, column.WithHeaderStyle(d.HeaderStyle))
	}
	if d.CellStyle != "" {
		opts = append(opts, column.WithCellStyle(d.CellStyle))
	}
	if d.Default != nil {
		opts = append(opts, column.WithDefault(d.Default))
	}
	if d.AllowBlank != nil {
		opts = append(opts, column.WithAllowBlank(*d.AllowBlank))
	}
	if d.ForcedText {
		opts = append(opts, column.WithForcedText())
	}
	if d.MaxLength != 0 {
		opts = append(opts, column.WithMaxLength(d.MaxLength))
	}
	if d.Round != nil {
		opts = append(opts, column.WithRoundValue(*d.Round))
	}
	if d.Strict {
		opts = append(opts, column.WithStrict())
	}
	if d.TrueValue != nil || d.FalseValue != nil {
		opts = append(opts, column.WithExcelValues(d.TrueValue, d.FalseValue))
	}
	if d.ListValidation != nil {
		opts = append(opts, column.WithListValidation(*d.ListValidation))
	}
	return opts
}

// TableDef 表格选项，未设置的沿用默认值
type TableDef struct {
	TitleStyle             string `yaml:"title_style"`
	DescriptionStyle       string `yaml:"description_style"`
	FormatAsTable          *bool  `yaml:"format_as_table"`
	TableStyle             string `yaml:"table_style"`
	TableName              string `yaml:"table_name"`
	FreezeHeader           *bool  `yaml:"freeze_header"`
	PrintTitles            *bool  `yaml:"print_titles"`
	HideExcessColumns      *bool  `yaml:"hide_excess_columns"`
	LookForHeaders         *bool  `yaml:"look_for_headers"`
	SuffixDuplicateHeaders *bool  `yaml:"suffix_duplicate_headers"`
	Policy                 string `yaml:"policy"`
	MaxRows                int    `yaml:"max_rows"`
}

func (d TableDef) Options() ([]table.Option, error) {
	var opts []table.Option
	if d.TitleStyle != "" {
		opts = append(opts, table.WithTitleStyle(d.TitleStyle))
	}
	if d.DescriptionStyle != "" {
		opts = append(opts, table.WithDescriptionStyle(d.DescriptionStyle))
	}
	if d.TableStyle != "" {
		opts = append(opts, table.WithTableStyle(d.TableStyle))
	}
	if d.TableName != "" {
		opts = append(opts, table.WithTableName(d.TableName))
	}
	flags := []struct {
		v   *bool
		opt func(bool) table.Option
	}{
		{d.FormatAsTable, table.WithFormatAsTable},
		{d.FreezeHeader, table.WithFreezeHeader},
		{d.PrintTitles, table.WithPrintTitles},
		{d.HideExcessColumns, table.WithHideExcessColumns},
		{d.LookForHeaders, table.WithLookForHeaders},
		{d.SuffixDuplicateHeaders, table.WithSuffixDuplicateHeaders},
	}
	for _, f := range flags {
		if f.v != nil {
			opts = append(opts, f.opt(*f.v))
		}
	}
	if d.Policy != "" {
		p, err := table.ParsePolicy(d.Policy)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		opts = append(opts, table.WithExceptionPolicy(p))
	}
	if d.MaxRows > 0 {
		opts = append(opts, table.WithMaxRows(d.MaxRows))
	}
	return opts, nil
}
