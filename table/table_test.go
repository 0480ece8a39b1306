package table

import (
	"reflect"
	"testing"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/iterator"
	"github.com/opdss/xltable/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type person struct {
	Name string `table:"name"`
	Age  int    `table:"age"`
}

func people() []person {
	return []person{{"Ann", 30}, {"Bo", 41}}
}

func newPersonTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	tbl, err := New([]*column.Column{
		column.Char("name", column.WithHeader("Name")),
		column.Int("age", column.WithHeader("Age")),
	}, opts...)
	require.NoError(t, err)
	return tbl
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoColumns)
	assert.True(t, Error.Has(err))

	tbl, err := New([]*column.Column{column.Char("a"), column.Char("a"), column.Char("a")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a 2", "a 3"}, tbl.Headers())

	tbl, err = New([]*column.Column{column.Char("a"), column.Char("b", column.WithHeader("a")), column.Char("c", column.WithHeader("a 2"))})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a 2", "a 2 2"}, tbl.Headers())

	tbl, err = New([]*column.Column{column.Char("a"), column.Char("b", column.WithHeader("a 2")), column.Char("c", column.WithHeader("a"))})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a 2", "a 3"}, tbl.Headers())

	_, err = New([]*column.Column{column.Char("a"), column.Char("a")}, WithSuffixDuplicateHeaders(false))
	assert.ErrorContains(t, err, ErrDuplicateHeader.Error())

	_, err = New([]*column.Column{
		column.Char("a", column.WithFreeze()),
		column.Char("b", column.WithFreeze()),
	})
	assert.ErrorContains(t, err, ErrMultipleFrozen.Error())

	_, err = New([]*column.Column{column.Char("a"), column.Char("b", column.WithHidden())})
	assert.ErrorIs(t, err, ErrHideLastColumn)
	_, err = New([]*column.Column{column.Char("a"), column.Char("b", column.WithGroup())})
	assert.ErrorIs(t, err, ErrHideLastColumn)
	_, err = New([]*column.Column{column.Char("a"), column.Char("b", column.WithHidden())}, WithHideExcessColumns(false))
	assert.NoError(t, err)

	_, err = New([]*column.Column{column.Formula("total", "")})
	assert.ErrorIs(t, err, column.ErrNoFormula)
}

func TestNewClonesColumns(t *testing.T) {
	c := column.Char("name")
	a, err := New([]*column.Column{column.Char("id"), c})
	require.NoError(t, err)
	b, err := New([]*column.Column{c})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 2, a.Columns()[1].Index())
	assert.Equal(t, 1, b.Columns()[0].Index())
	col, ok := a.Column("name")
	require.True(t, ok)
	assert.Equal(t, "B", col.Letter())
}

func TestWriteRead(t *testing.T) {
	tbl := newPersonTable(t)
	sh := newMemSheet("People")
	require.NoError(t, tbl.Write(sh, iterator.Objects(people())))

	require.Len(t, sh.rows, 3)
	assert.Equal(t, cell.Text("Name"), sh.rows[0][0].Value)
	assert.Equal(t, style.HeaderName, sh.rows[0][0].Style)
	assert.Equal(t, cell.Number(41), sh.rows[2][1].Value)
	assert.Equal(t, style.RowIntegerName, sh.rows[2][1].Style)

	assert.Equal(t, "A1:B3", sh.tableRef)
	assert.Equal(t, "People", sh.tableName)
	assert.Equal(t, [2]int{0, 1}, sh.freeze)
	assert.Equal(t, [2]int{1, 1}, sh.printTitles)
	assert.Equal(t, 3, sh.hideFrom)
	assert.Equal(t, column.DefaultWidth, sh.widths[1])

	records, err := tbl.Read(sh).All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ann", records[0].Get("name"))
	assert.Equal(t, 30, records[0].Get("age"))
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, map[string]any{"name": "Bo", "age": 41}, records[1].Map())

	var p person
	require.NoError(t, records[1].Decode(&p))
	assert.Equal(t, person{"Bo", 41}, p)
}

func TestWriteTitleAndDescription(t *testing.T) {
	tbl := newPersonTable(t, WithTableName("staff"))
	sh := newMemSheet("People")
	require.NoError(t, tbl.Write(sh, iterator.Objects(people()), WithTitle("Staff"), WithDescription("All of them")))

	require.Len(t, sh.rows, 5)
	assert.Equal(t, sheet.Cell{Value: cell.Text("Staff"), Style: style.TitleName}, sh.rows[0][0])
	assert.Equal(t, style.DescriptionName, sh.rows[1][0].Style)
	assert.Equal(t, [][3]int{{1, 1, 2}, {2, 1, 2}}, sh.merges)
	assert.Equal(t, "A3:B5", sh.tableRef)
	assert.Equal(t, "staff", sh.tableName)
	assert.Equal(t, [2]int{0, 3}, sh.freeze)
	assert.Equal(t, [2]int{1, 3}, sh.printTitles)

	records, err := tbl.Read(sh).All()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 4, records[0].Row)
}

func TestWriteEmpty(t *testing.T) {
	tbl, err := New([]*column.Column{column.Char("name"), column.Bool("active")}, WithFreezeHeader(false))
	require.NoError(t, err)
	sh := newMemSheet("Empty")
	require.NoError(t, tbl.Write(sh, nil))
	assert.Len(t, sh.rows, 1)
	assert.Equal(t, "A1:B2", sh.tableRef)
	assert.Contains(t, sh.dvs, "B2")
	assert.Equal(t, [2]int{}, sh.freeze)
}

func TestWriteFrozenColumn(t *testing.T) {
	tbl, err := New([]*column.Column{
		column.Char("id", column.WithFreeze()),
		column.Char("name"),
	}, WithFreezeHeader(false))
	require.NoError(t, err)
	sh := newMemSheet("S")
	require.NoError(t, tbl.Write(sh, iterator.Objects([]map[string]any{{"id": "1", "name": "x"}})))
	assert.Equal(t, [2]int{1, 0}, sh.freeze)
}

func TestWriteEncodeErrorKeepsSheet(t *testing.T) {
	tbl := newPersonTable(t)
	sh := newMemSheet("People").values([]any{"Name", "Age"}, []any{"Old", 1})
	err := tbl.Write(sh, iterator.Objects([]map[string]any{{"name": "Ann", "age": "x"}}))
	var ce *column.CellError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "B2", ce.Cell)
	assert.Equal(t, 0, sh.removed)
	assert.Len(t, sh.rows, 2)
}

func TestWriteMissingStyle(t *testing.T) {
	tbl, err := New([]*column.Column{column.Char("name", column.WithCellStyle("Fancy"))})
	require.NoError(t, err)
	sh := newMemSheet("People")
	err = tbl.Write(sh, nil)
	var snf *style.StyleNotFoundError
	require.ErrorAs(t, err, &snf)
	assert.Equal(t, "People", snf.Sheet)
	assert.Equal(t, "Fancy", snf.Name)
	assert.False(t, sh.exists)

	tbl = newPersonTable(t, WithTitleStyle("Missing"))
	assert.NoError(t, tbl.Write(newMemSheet("A"), nil))
	assert.Error(t, tbl.Write(newMemSheet("B"), nil, WithTitle("T")))
}

func TestWritePreserve(t *testing.T) {
	tbl := newPersonTable(t)
	sh := newMemSheet("People")
	require.NoError(t, tbl.Write(sh, iterator.Objects(people())))
	require.NoError(t, tbl.Write(sh, iterator.Objects([]person{{"Cy", 7}}), WithPreserve()))
	assert.Equal(t, 1, sh.removed)

	records, err := tbl.Read(sh).All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Ann", records[0].Get("name"))
	assert.Equal(t, "Cy", records[2].Get("name"))

	require.NoError(t, tbl.Write(sh, iterator.Objects([]person{{"Dee", 1}})))
	records, err = tbl.Read(sh).All()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteMaxRows(t *testing.T) {
	tbl := newPersonTable(t, WithMaxRows(1))
	err := tbl.Write(newMemSheet("S"), iterator.Objects(people()))
	assert.ErrorIs(t, err, ErrMaximumLimit)
}

func TestWriteSlicesAndMaps(t *testing.T) {
	tbl := newPersonTable(t)
	sh := newMemSheet("S")
	objs := []any{[]any{"Ann", 30}, map[string]any{"name": "Bo", "age": "41"}, &person{"Cy", 7}}
	require.NoError(t, tbl.Write(sh, iterator.Objects(objs)))
	records, err := tbl.Read(sh).All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 41, records[1].Get("age"))
	assert.Equal(t, "Cy", records[2].Get("name"))
}

type summary struct {
	Label string
	Total int
}

func TestRowStylesAndRules(t *testing.T) {
	dv := excelize.NewDataValidation(true)
	totalDV := excelize.NewDataValidation(false)
	cf := &sheet.ConditionalFormat{Style: style.HeaderName, Options: excelize.ConditionalFormatOptions{Type: "cell", Criteria: ">", Value: "10"}}
	summaryType := reflect.TypeOf(summary{})

	tbl, err := New([]*column.Column{
		column.Char("name", column.WithGetter(func(obj any) any {
			if s, ok := obj.(summary); ok {
				return s.Label
			}
			return obj.(person).Name
		})),
		column.Int("age",
			column.WithDataValidation(dv),
			column.WithConditionalFormat(cf),
			column.WithRowStyles(column.RowStyle{
				RowType:        summaryType,
				Getter:         func(obj any) any { return obj.(summary).Total },
				DataValidation: totalDV,
			}),
		),
	}, WithRowStyles(column.RowStyle{RowType: summaryType, CellStyle: style.HeaderName}))
	require.NoError(t, err)

	sh := newMemSheet("S")
	objs := []any{person{"Ann", 30}, person{"Bo", 41}, summary{"Total", 71}, person{"Cy", 7}}
	require.NoError(t, tbl.Write(sh, iterator.Objects(objs)))

	assert.Equal(t, style.HeaderName, sh.rows[3][0].Style)
	assert.Equal(t, style.HeaderName, sh.rows[3][1].Style)
	assert.Equal(t, cell.Number(71), sh.rows[3][1].Value)
	assert.Equal(t, style.RowIntegerName, sh.rows[2][1].Style)

	assert.Same(t, dv, sh.dvs["B2:B3 B5"])
	assert.Same(t, totalDV, sh.dvs["B4"])
	assert.Same(t, cf, sh.cfs["B2:B5"])
	assert.ElementsMatch(t, []string{style.HeaderName, style.RowStringName, style.RowIntegerName, style.TitleName, style.DescriptionName}, tbl.Styles())
}

func TestRowTyper(t *testing.T) {
	tbl, err := New([]*column.Column{
		column.Int("n", column.WithRowStyles(column.RowStyle{RowType: "odd", CellStyle: style.RowDecimalName})),
	}, WithRowTyper(func(_ any, index int) any {
		if index%2 == 1 {
			return "odd"
		}
		return "even"
	}))
	require.NoError(t, err)
	sh := newMemSheet("S")
	require.NoError(t, tbl.Write(sh, iterator.Objects([][]int{{1}, {2}, {3}})))
	assert.Equal(t, style.RowIntegerName, sh.rows[1][0].Style)
	assert.Equal(t, style.RowDecimalName, sh.rows[2][0].Style)
}

func TestGroups(t *testing.T) {
	tbl, err := New([]*column.Column{
		column.Char("a"),
		column.Char("b", column.WithGroup(), column.WithHidden()),
		column.Char("c", column.WithGroup()),
		column.Char("d"),
		column.Char("e", column.WithGroup()),
		column.Char("f"),
	})
	require.NoError(t, err)
	sh := newMemSheet("S")
	require.NoError(t, tbl.Write(sh, nil))
	assert.Equal(t, [][3]int{{2, 3, 1}, {5, 5, 0}}, sh.groups)
	assert.True(t, sh.hidden[2])
	assert.Equal(t, 7, sh.hideFrom)
}

func TestTableName(t *testing.T) {
	tbl := newPersonTable(t)
	assert.Equal(t, "SalesQ1", tbl.TableName("2024 Sales-Q1"))
	assert.Equal(t, "_x", tbl.TableName("1_x"))
}

func blankAgeSheet() *memSheet {
	return newMemSheet("People").values(
		[]any{"Some title"},
		[]any{"Name", "Age"},
		[]any{"Ann", 30},
		[]any{"Bo", nil},
		[]any{"Cy", "x"},
		[]any{},
		[]any{"Dee", 5},
	)
}

func strictTable(t *testing.T, opts ...Option) *Table {
	tbl, err := New([]*column.Column{
		column.Char("name", column.WithHeader("Name")),
		column.Int("age", column.WithHeader("Age"), column.WithAllowBlank(false)),
	}, opts...)
	require.NoError(t, err)
	return tbl
}

func TestReadRaiseCell(t *testing.T) {
	r := strictTable(t).Read(blankAgeSheet())
	require.True(t, r.Next())
	assert.Equal(t, "Ann", r.Value().Get("name"))
	assert.False(t, r.Next())
	var ce *column.CellError
	require.ErrorAs(t, r.Err(), &ce)
	assert.Equal(t, "B4", ce.Cell)
	assert.ErrorIs(t, r.Err(), column.ErrBlankNotAllowed)
	assert.False(t, r.Next())
}

func TestReadRaiseRow(t *testing.T) {
	records, err := strictTable(t).Read(blankAgeSheet(), WithPolicy(RaiseRowException)).All()
	assert.Len(t, records, 1)
	var re *RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 4, re.Row)
	assert.Len(t, re.Cells, 1)
}

func TestReadRaiseSheet(t *testing.T) {
	records, err := strictTable(t, WithExceptionPolicy(RaiseSheetException)).Read(blankAgeSheet()).All()
	assert.Len(t, records, 2)
	var se *SheetError
	require.ErrorAs(t, err, &se)
	require.Len(t, se.Rows, 3)
	assert.Equal(t, 4, se.Rows[0].Row)
	assert.Equal(t, 5, se.Rows[1].Row)
	assert.Equal(t, 6, se.Rows[2].Row)
	var pe *column.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestReadIgnoreRow(t *testing.T) {
	records, err := strictTable(t).Read(blankAgeSheet(), WithPolicy(IgnoreRow)).All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ann", records[0].Get("name"))
	assert.Equal(t, "Dee", records[1].Get("name"))
	assert.Equal(t, 7, records[1].Row)
}

func TestReadBlankRowBetweenData(t *testing.T) {
	tbl, err := New([]*column.Column{
		column.Char("name", column.WithHeader("Name"), column.WithAllowBlank(false)),
	})
	require.NoError(t, err)
	sh := newMemSheet("People").values([]any{"Name"}, []any{"Ann"}, []any{}, []any{"Bo"}, []any{}, []any{})

	r := tbl.Read(sh, WithPolicy(RaiseCellException))
	require.True(t, r.Next())
	assert.Equal(t, "Ann", r.Value().Get("name"))
	assert.False(t, r.Next())
	var ce *column.CellError
	require.ErrorAs(t, r.Err(), &ce)
	assert.Equal(t, "A3", ce.Cell)
	assert.ErrorIs(t, r.Err(), column.ErrBlankNotAllowed)

	records, err := tbl.Read(sh, WithPolicy(IgnoreRow)).All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bo", records[1].Get("name"))
	assert.Equal(t, 4, records[1].Row)
}

func TestReadTrailingBlankRows(t *testing.T) {
	records, err := newPersonTable(t).Read(newMemSheet("People").values(
		[]any{"Name", "Age"}, []any{"Ann", 30}, []any{}, []any{nil, ""},
	)).All()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestReadHeaderNotFound(t *testing.T) {
	sh := newMemSheet("S").values([]any{"Nom", "Age"}, []any{"Ann", 1})
	_, err := newPersonTable(t).Read(sh).All()
	var hnf *HeaderNotFoundError
	require.ErrorAs(t, err, &hnf)
	assert.Equal(t, []string{"Name", "Age"}, hnf.Expected)

	records, err := newPersonTable(t).Read(sh, WithHeaderLookup(false)).All()
	require.Error(t, err)
	assert.Empty(t, records)

	sh = newMemSheet("S").values([]any{"Ann", 1}, []any{"Bo"})
	records, err = newPersonTable(t, WithLookForHeaders(false)).Read(sh).All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[1].Get("age"))
}

func TestReaderIsLazy(t *testing.T) {
	sh := newMemSheet("S").values([]any{"Name", "Age"}, []any{"Ann", 1}, []any{"Bo", 2})
	r := newPersonTable(t).Read(sh)
	sh.rows = sh.rows[:2]
	records, err := r.All()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.NoError(t, r.Close())
}

func TestPolicy(t *testing.T) {
	assert.True(t, RaiseCellException.Satisfies(RaiseRowException))
	assert.True(t, RaiseRowException.Satisfies(RaiseRowException))
	assert.False(t, IgnoreRow.Satisfies(RaiseSheetException))
	p, err := ParsePolicy("ignorerow")
	require.NoError(t, err)
	assert.Equal(t, IgnoreRow, p)
	_, err = ParsePolicy("nope")
	assert.Error(t, err)
	assert.Equal(t, "RaiseSheetException", RaiseSheetException.String())
}

func TestRecordDecode(t *testing.T) {
	rec := newRecord(newPersonTable(t), 2)
	rec.values = []any{"Ann", 30}

	var out struct {
		Name *string
		Age  int64 `table:"age"`
	}
	require.NoError(t, rec.Decode(&out))
	require.NotNil(t, out.Name)
	assert.Equal(t, "Ann", *out.Name)
	assert.Equal(t, int64(30), out.Age)

	var wrong struct {
		Name []int
	}
	assert.Error(t, rec.Decode(&wrong))
	assert.Error(t, rec.Decode(out))
	assert.Error(t, rec.Decode(nil))
}
