package schema

import (
	"io"
	"os"

	"github.com/opdss/xltable/style"
	"gopkg.in/yaml.v2"
)

// Document YAML 格式的表格定义
//
//	name: members
//	table:
//	  policy: RaiseRowException
//	styles:
//	  - name: Highlight
//	    base: Row
//	    fill: {pattern: solid, color: FFFFFF00}
//	columns:
//	  - {attribute: name, kind: char, header: Name, freeze: true}
//	  - {attribute: age, kind: int, allow_blank: false}
type Document struct {
	Name    string      `yaml:"name"`
	Table   TableDef    `yaml:"table"`
	Styles  []StyleDef  `yaml:"styles"`
	Columns []ColumnDef `yaml:"columns"`
}

// StyleDef 没有 base 时为具体样式，否则为 base 的扩展
type StyleDef struct {
	Name         string `yaml:"name"`
	Base         string `yaml:"base"`
	style.Format `yaml:",inline"`
}

func (d StyleDef) Declaration() style.Declaration {
	if d.Base == "" {
		return style.Style{Name: d.Name, Format: d.Format}
	}
	return style.Extension{Base: d.Base, Name: d.Name, Format: d.Format}
}

// ParseYAML 解析 YAML 定义，未知字段报错
func ParseYAML(data []byte) (*Schema, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, Error.Wrap(err)
	}
	return doc.Schema()
}

func LoadYAML(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return ParseYAML(data)
}

func LoadYAMLFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return ParseYAML(data)
}

func (doc Document) Schema() (*Schema, error) {
	s := New(doc.Name)
	opts, err := doc.Table.Options()
	if err != nil {
		return nil, err
	}
	s.With(opts...)
	for _, sd := range doc.Styles {
		if sd.Name == "" {
			return nil, Error.New("%s: style without name", doc.Name)
		}
		s.Style(sd.Declaration())
	}
	for _, cd := range doc.Columns {
		c, err := cd.Column()
		if err != nil {
			return nil, err
		}
		s.Add(c)
	}
	return s, nil
}
