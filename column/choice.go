package column

import (
	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/typed"
)

// Choice 可选值：Value 为内部值，Label 为文档中显示的文字
type Choice struct {
	Value any
	Label string
}

// Choices 内部值与显示文字相同的可选值
func Choices(labels ...string) []Choice {
	res := make([]Choice, len(labels))
	for i, l := range labels {
		res[i] = Choice{Value: l, Label: l}
	}
	return res
}

// ChoiceOf 选项列，不在可选范围内的值使用默认值，没有默认值时报错
func ChoiceOf(attribute string, choices []Choice, opts ...Option) *Column {
	c := newColumn(KindChoice, attribute, style.RowName, opts)
	c.choices = choices
	cc := choiceCodec{
		toLabel:   make(map[any]string, len(choices)),
		fromLabel: make(map[string]any, len(choices)),
		def:       c.def,
	}
	if len(choices) == 0 {
		c.fail("no choices specified")
	}
	for _, ch := range choices {
		if err := typed.Comparable("choice", ch.Value); err != nil {
			c.fail("%v", err)
			continue
		}
		if ch.Value == nil {
			c.fail("choice value must not be nil")
			continue
		}
		cc.toLabel[ch.Value] = ch.Label
		cc.fromLabel[ch.Label] = ch.Value
		cc.labels = append(cc.labels, ch.Label)
	}
	if c.listValidation && c.dataValidation == nil && len(cc.labels) > 0 {
		c.dataValidation = dropList(c, cc.labels...)
	}
	return c.finish(cc)
}

type choiceCodec struct {
	toLabel   map[any]string
	fromLabel map[string]any
	labels    []string
	def       any
}

func (cc choiceCodec) encode(v any, _ int) (cell.Value, error) {
	if label, ok := cc.label(v); ok {
		return cell.Text(label), nil
	}
	if cc.def != nil {
		if label, ok := cc.label(cc.def); ok {
			return cell.Text(label), nil
		}
	}
	return cell.Blank(), &IllegalChoiceError{Choices: cc.labels}
}

func (cc choiceCodec) label(v any) (string, bool) {
	if err := typed.Comparable("choice", v); err != nil {
		return "", false
	}
	label, ok := cc.toLabel[v]
	return label, ok
}

func (cc choiceCodec) decode(v cell.Value) (any, error) {
	if value, ok := cc.fromLabel[v.String()]; ok {
		return value, nil
	}
	if cc.def != nil {
		return cc.def, nil
	}
	return nil, &IllegalChoiceError{Choices: cc.labels}
}
