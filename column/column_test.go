package column

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c *Column, v any) any {
	t.Helper()
	require.NoError(t, c.Err())
	out, err := c.Encode(v, 2)
	require.NoError(t, err)
	back, err := c.Decode(out, 2)
	require.NoError(t, err)
	return back
}

func TestRoundTrip(t *testing.T) {
	day := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	moment := time.Date(2023, 12, 31, 13, 45, 30, 0, time.UTC)
	tests := []struct {
		name string
		col  *Column
		in   any
		want any
	}{
		{"char", Char("name"), "Ann", "Ann"},
		{"text", Text("note"), "line1\nline2", "line1\nline2"},
		{"int", Int("age"), 30, 30},
		{"int from string", Int("age"), "41", 41},
		{"int64", Int("age"), int64(-7), -7},
		{"float", Float("score"), 1.25, 1.25},
		{"bool true", Bool("ok"), true, true},
		{"bool false", Bool("ok"), false, false},
		{"choice", ChoiceOf("level", []Choice{{1, "low"}, {2, "high"}}), 2, 2},
		{"datetime", DateTime("at"), moment, moment},
		{"date", Date("day"), moment, day},
		{"year", Year("year"), day, day},
		{"time", Time("clock"), 13*time.Hour + 45*time.Minute, 13*time.Hour + 45*time.Minute},
		{"any", New("raw"), "x", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.col, tt.in))
		})
	}
}

func TestSerialBoundaries(t *testing.T) {
	c := Date("day")
	for _, serial := range []float64{59, 61} {
		v, err := c.Decode(cell.Number(serial), 2)
		require.NoError(t, err)
		out, err := c.Encode(v, 2)
		require.NoError(t, err)
		assert.Equal(t, serial, out.Number())
	}

	v, err := c.Decode(cell.Number(60), 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), v)

	_, err = c.Decode(cell.Number(0), 2)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestBlankHandling(t *testing.T) {
	c := Int("age", WithDefault(18))
	out, err := c.Encode(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, cell.Number(18), out)
	v, err := c.Decode(cell.Blank(), 2)
	require.NoError(t, err)
	assert.Equal(t, 18, v)

	c = Int("age", WithHeader("Age"), WithAllowBlank(false))
	c.SetIndex(2)
	_, err = c.Decode(cell.Text(""), 7)
	var ce *CellError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, ErrBlankNotAllowed)
	assert.Equal(t, "B7", ce.Cell)
	assert.Contains(t, err.Error(), "cell B7")

	_, err = c.Encode((*int)(nil), 0)
	assert.ErrorIs(t, err, ErrBlankNotAllowed)
	assert.Contains(t, err.Error(), "column 'Age'")

	c = Char("name")
	v, err = c.Decode(cell.Blank(), 2)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInvalidDefault(t *testing.T) {
	c := Int("age", WithDefault("abc"))
	require.Error(t, c.Err())
	assert.True(t, Error.Has(c.Err()))

	c = ChoiceOf("level", Choices("a", "b"), WithDefault("c"))
	assert.Error(t, c.Err())

	c = Char("tags", WithDefault([]string{"a"}))
	assert.ErrorContains(t, c.Err(), "default: expected one of")

	c = Date("joined", WithDefault(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, c.Err())
}

func TestForcedText(t *testing.T) {
	v, err := Char("code").Decode(cell.Text("'007"), 2)
	require.NoError(t, err)
	assert.Equal(t, "007", v)

	v, err = Char("code", WithForcedText()).Decode(cell.Text("'007"), 2)
	require.NoError(t, err)
	assert.Equal(t, "'007", v)

	v, err = Int("n").Decode(cell.Text("'12"), 2)
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestTextMaxLength(t *testing.T) {
	c := Char("name", WithMaxLength(3))
	_, err := c.Encode("中文字符", 2)
	assert.ErrorIs(t, err, ErrStringTooLong)
	_, err = c.Encode("中文字", 2)
	assert.NoError(t, err)
}

func TestIntRounding(t *testing.T) {
	v, err := Int("n").Decode(cell.Number(2.6), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	c := Int("n", WithRoundValue(false))
	_, err = c.Decode(cell.Number(2.6), 2)
	assert.ErrorIs(t, err, ErrRoundingRequired)
	_, err = c.Encode(2.5, 2)
	assert.ErrorIs(t, err, ErrRoundingRequired)

	_, err = c.Encode("abc", 2)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "unable to convert to int", pe.Error())

	for _, f := range []float64{1e20, -1e20, math.Inf(1), math.NaN()} {
		_, err = Int("n").Decode(cell.Number(f), 2)
		assert.ErrorAs(t, err, &pe, "%v", f)
		_, err = Int("n").Encode(f, 2)
		assert.ErrorAs(t, err, &pe, "%v", f)
	}
}

func TestBool(t *testing.T) {
	c := Bool("ok")
	require.NotNil(t, c.DataValidation(nil))
	for raw, want := range map[cell.Value]bool{
		cell.Number(1):     true,
		cell.Number(0):     false,
		cell.Text("TRUE"):  true,
		cell.Text("false"): false,
		cell.Text("x"):     true,
	} {
		v, err := c.Decode(raw, 2)
		require.NoError(t, err)
		assert.Equal(t, want, v, raw.GoString())
	}

	c = Bool("ok", WithExcelValues("Yes", "No"), WithStrict())
	out, err := c.Encode(true, 2)
	require.NoError(t, err)
	assert.Equal(t, cell.Text("Yes"), out)
	v, err := c.Decode(cell.Text("No"), 2)
	require.NoError(t, err)
	assert.Equal(t, false, v)
	_, err = c.Decode(cell.Text("maybe"), 2)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	assert.Error(t, Bool("ok", WithExcelValues("Y", "Y")).Err())
	assert.ErrorContains(t, Bool("ok", WithExcelValues(time.Now(), "N")).Err(), "excel value: expected one of")
}

func TestChoice(t *testing.T) {
	c := ChoiceOf("level", []Choice{{1, "low"}, {2, "high"}})
	out, err := c.Encode(1, 2)
	require.NoError(t, err)
	assert.Equal(t, cell.Text("low"), out)

	_, err = c.Encode(3, 2)
	var ice *IllegalChoiceError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, []string{"low", "high"}, ice.Choices)

	c = ChoiceOf("level", []Choice{{1, "low"}, {2, "high"}}, WithDefault(1))
	v, err := c.Decode(cell.Text("medium"), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	assert.Error(t, ChoiceOf("level", nil).Err())
	assert.Error(t, ChoiceOf("level", []Choice{{[]int{1}, "bad"}}).Err())
}

func TestTimeColumn(t *testing.T) {
	c := Time("clock")
	out, err := c.Encode("08:30", 2)
	require.NoError(t, err)
	assert.InDelta(t, 8.5/24, out.Number(), 1e-9)

	v, err := c.Decode(cell.Number(45292.75), 2)
	require.NoError(t, err)
	assert.Equal(t, 18*time.Hour, v)

	_, err = c.Encode(25*time.Hour, 2)
	assert.Error(t, err)
}

func TestDateFromText(t *testing.T) {
	v, err := Date("day").Decode(cell.Text("2024-01-02"), 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), v)
	assert.Equal(t, style.HeaderCenterName, Date("day").HeaderStyle())
}

func TestFormula(t *testing.T) {
	c := Formula("total", "=A{row}*B{row}")
	require.NoError(t, c.Err())
	sc, err := c.Cell(nil, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, cell.Formula("A5*B5"), sc.Value)

	c = Formula("total", "")
	assert.True(t, errors.Is(c.Err(), ErrNoFormula))
}

func TestEmpty(t *testing.T) {
	c := Empty("spacer", WithWidth(2))
	sc, err := c.Cell(map[string]any{"spacer": "x"}, nil, 2)
	require.NoError(t, err)
	assert.True(t, sc.Value.IsBlank())
	assert.Equal(t, style.EmptyName, sc.Style)
	v, err := c.Decode(cell.Text("x"), 2)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestHeader(t *testing.T) {
	c := Char("name")
	assert.Equal(t, "name", c.Header())
	c.SetIndex(3)
	assert.Equal(t, "C", c.Letter())
	assert.Equal(t, "C4", c.Ref(4))
	assert.Equal(t, "Column3", Char("").Clone().withIndex(3).Header())
	assert.Equal(t, "Name", Char("name", WithHeader("Name")).Header())
}

func (c *Column) withIndex(i int) *Column {
	c.SetIndex(i)
	return c
}

func TestOptionErrors(t *testing.T) {
	assert.Error(t, Char("a", WithWidth(0)).Err())
	assert.Error(t, Char("a", WithMaxLength(-1)).Err())
}

type kind string

func TestRowStyles(t *testing.T) {
	c := Int("n",
		WithCellStyle("Row"),
		WithRowStyles(RowStyle{RowType: kind("total"), CellStyle: "Header", Getter: func(any) any { return 99 }}),
	)
	require.NoError(t, c.Err())
	assert.Equal(t, "Row", c.CellStyle(nil))
	assert.Equal(t, "Row", c.CellStyle(kind("other")))
	assert.Equal(t, "Header", c.CellStyle(kind("total")))

	sc, err := c.Cell(map[string]any{"n": 1}, kind("total"), 2)
	require.NoError(t, err)
	assert.Equal(t, cell.Number(99), sc.Value)
	assert.Equal(t, "Header", sc.Style)

	c.InheritRowStyles(RowStyle{RowType: kind("total"), CellStyle: "Title"}, RowStyle{RowType: kind("sub"), CellStyle: "Title"})
	assert.Equal(t, "Header", c.CellStyle(kind("total")))
	assert.Equal(t, "Title", c.CellStyle(kind("sub")))
	assert.ElementsMatch(t, []string{style.HeaderName, "Row", "Title"}, c.Styles())

	assert.Error(t, Int("n", WithRowStyles(RowStyle{RowType: []int{1}})).Err())
	assert.Equal(t, "Row", c.CellStyle([]int{1}))
}
