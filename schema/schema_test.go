package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headers(cols []*column.Column) []string {
	res := make([]string, len(cols))
	for i, c := range cols {
		res[i] = c.Header()
	}
	return res
}

func TestInheritanceOrder(t *testing.T) {
	base := New("base").Add(
		column.Char("id", column.WithHeader("ID")),
		column.Char("name", column.WithHeader("Name")),
	)
	audit := New("audit").Add(
		column.DateTime("created", column.WithHeader("Created")),
		column.Char("name", column.WithHeader("Audit name")),
	)
	child := New("child", base, audit).Add(
		column.Int("id", column.WithHeader("Number")),
		column.Float("score", column.WithHeader("Score")),
	)

	// 靠前的基础覆盖靠后的基础，自身覆盖基础，位置保持首次出现的位置
	assert.Equal(t, []string{"Created", "Name", "Number", "Score"}, headers(child.Columns()))
	assert.Equal(t, []string{"ID", "Name"}, headers(base.Columns()))

	tbl, err := child.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Created", "Name", "Number", "Score"}, tbl.Headers())
	c, ok := tbl.Column("id")
	require.True(t, ok)
	assert.Equal(t, column.KindInt, c.Kind())
	assert.Equal(t, 3, c.Index())
}

func TestStylesAndOptions(t *testing.T) {
	base := New("base").
		Style(style.Extension{Base: style.RowName, Name: "Highlight", Format: style.Format{Fill: style.Solid("FFFFFF00")}}).
		With(table.WithExceptionPolicy(table.RaiseRowException))
	child := New("child", base).
		Style(style.Extension{Base: style.RowName, Name: "Highlight", Format: style.Format{Fill: style.Solid("FF00FF00")}}).
		With(table.WithExceptionPolicy(table.IgnoreRow)).
		Add(column.Char("name", column.WithCellStyle("Highlight")))

	decls := child.Declarations()
	require.Len(t, decls, 1)
	set, err := child.Styles()
	require.NoError(t, err)
	f, err := set.Format("Highlight")
	require.NoError(t, err)
	assert.Equal(t, "FF00FF00", f.Fill.Color)

	tbl, err := child.Table()
	require.NoError(t, err)
	assert.Equal(t, table.IgnoreRow, tbl.Policy())

	tbl, err = child.Table(table.WithExceptionPolicy(table.RaiseSheetException))
	require.NoError(t, err)
	assert.Equal(t, table.RaiseSheetException, tbl.Policy())
}

func TestErrors(t *testing.T) {
	s := New("broken").Add(nil, column.Char("a"))
	_, err := s.Table()
	assert.True(t, Error.Has(err))

	child := New("child", s)
	assert.Error(t, child.Err())

	_, err = New("empty").Table()
	assert.ErrorIs(t, err, table.ErrNoColumns)
	assert.True(t, Error.Has(err))
}

func TestAnonymousColumnsKeepPositions(t *testing.T) {
	s := New("s").Add(column.Empty(""), column.Empty(""), column.Char("a"))
	assert.Len(t, s.Columns(), 3)
}

const membersYAML = `
name: members
table:
  policy: raiseRowException
  freeze_header: false
  table_style: TableStyleLight9
styles:
  - name: Plain
    font: {bold: false}
  - name: Money
    base: Row
    number_format: "#,##0.00"
columns:
  - {attribute: name, kind: char, header: Name, freeze: true, max_length: 20}
  - {attribute: age, kind: int, allow_blank: false}
  - {attribute: balance, kind: float, cell_style: Money, default: 0}
  - {attribute: level, kind: choice, choices: [{value: 1, label: Gold}, {value: 2, label: Silver}]}
  - {attribute: vip, kind: bool, true_value: "yes", false_value: "no", strict: true}
  - {attribute: total, kind: formula, formula: "=C{row}*2"}
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(membersYAML))
	require.NoError(t, err)
	assert.Equal(t, "members", s.Name())

	tbl, err := s.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "age", "balance", "level", "vip", "total"}, tbl.Headers())
	assert.Equal(t, table.RaiseRowException, tbl.Policy())

	age, _ := tbl.Column("age")
	assert.False(t, age.AllowBlank())
	balance, _ := tbl.Column("balance")
	assert.Equal(t, "Money", balance.CellStyle(nil))

	level, _ := tbl.Column("level")
	v, err := level.Encode(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "Silver", v.Text())

	vip, _ := tbl.Column("vip")
	v, err = vip.Encode(true, 3)
	require.NoError(t, err)
	assert.Equal(t, "yes", v.Text())

	total, _ := tbl.Column("total")
	sc, err := total.Cell(nil, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, "C7*2", sc.Value.Formula())

	set, err := s.Styles()
	require.NoError(t, err)
	assert.True(t, set.Has("Money"))
	assert.True(t, set.Has("Plain"))
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("name: x\ncolumns:\n  - {attribute: a, kind: money}\n"))
	assert.ErrorContains(t, err, "unknown kind")

	_, err = ParseYAML([]byte("name: x\ncolumns:\n  - {attribute: a, colour: red}\n"))
	assert.True(t, Error.Has(err))

	_, err = ParseYAML([]byte("name: x\ntable: {policy: sometimes}\n"))
	assert.ErrorContains(t, err, "unknown exception policy")

	_, err = ParseYAML([]byte("name: x\ncolumns:\n  - {attribute: a, kind: int, default: {n: 1}}\n"))
	assert.ErrorContains(t, err, `column "a": default: expected one of`)

	_, err = ParseYAML([]byte("name: x\ncolumns:\n  - {attribute: a, kind: choice, choices: [{value: [1, 2], label: x}]}\n"))
	assert.ErrorContains(t, err, "choices.value")

	_, err = LoadYAML(strings.NewReader("name: x\nstyles:\n  - {base: Row}\n"))
	assert.ErrorContains(t, err, "style without name")
}

type member struct {
	Name    string    `table:"name,header=Name,freeze,required,max=10"`
	Age     int       `table:"age"`
	Score   float64   `table:",header=Score"`
	Joined  time.Time `table:"joined,kind=date"`
	Level   string    `table:"level,kind=choice,choices=gold|silver"`
	Active  *bool
	Note    string `table:"-"`
	private int
}

func TestFromStruct(t *testing.T) {
	s, err := FromStruct("members", &member{})
	require.NoError(t, err)
	tbl, err := s.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "age", "Score", "joined", "level", "Active"}, tbl.Headers())

	kinds := make([]column.Kind, 0, 6)
	for _, c := range tbl.Columns() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []column.Kind{
		column.KindChar, column.KindInt, column.KindFloat, column.KindDate, column.KindChoice, column.KindBool,
	}, kinds)

	name, _ := tbl.Column("name")
	assert.False(t, name.AllowBlank())
	assert.True(t, name.Frozen())

	active := true
	m := member{Name: "Ann", Age: 3, Score: 1.5, Level: "gold", Active: &active}
	score, _ := tbl.Column("Score")
	assert.Equal(t, 1.5, score.Value(m, nil))
	act, _ := tbl.Column("Active")
	assert.Equal(t, &active, act.Value(m, nil))
}

func TestFromStructErrors(t *testing.T) {
	_, err := FromStruct("x", 42)
	assert.True(t, Error.Has(err))

	type bad struct {
		A string `table:"a,colour=red"`
	}
	_, err = FromStruct("x", bad{})
	assert.ErrorContains(t, err, "unknown tag option")

	type badWidth struct {
		A string `table:"a,width=wide"`
	}
	_, err = FromStruct("x", badWidth{})
	assert.Error(t, err)
}
