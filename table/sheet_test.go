package table

import (
	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/style"
	"github.com/xuri/excelize/v2"
)

// memSheet 内存中的工作表，记录所有后处理调用
type memSheet struct {
	name    string
	styles  *style.Set
	exists  bool
	rows    [][]sheet.Cell
	removed int

	merges      [][3]int
	widths      map[int]float64
	hidden      map[int]bool
	groups      [][3]int
	hideFrom    int
	dvs         map[string]*excelize.DataValidation
	cfs         map[string]*sheet.ConditionalFormat
	tableRef    string
	tableName   string
	freeze      [2]int
	printTitles [2]int
}

var _ sheet.Sheet = (*memSheet)(nil)

func newMemSheet(name string) *memSheet {
	set, err := style.NewDefaultSet()
	if err != nil {
		panic(err)
	}
	s := &memSheet{name: name, styles: set}
	s.reset()
	return s
}

func (s *memSheet) reset() {
	s.rows = nil
	s.merges = nil
	s.widths = map[int]float64{}
	s.hidden = map[int]bool{}
	s.groups = nil
	s.hideFrom = 0
	s.dvs = map[string]*excelize.DataValidation{}
	s.cfs = map[string]*sheet.ConditionalFormat{}
	s.tableRef, s.tableName = "", ""
	s.freeze = [2]int{}
	s.printTitles = [2]int{}
}

// values 只包含取值的行，用于预置数据
func (s *memSheet) values(rows ...[]any) *memSheet {
	s.exists = true
	for _, r := range rows {
		cells := make([]sheet.Cell, len(r))
		for i, v := range r {
			cv, _ := cell.Of(v)
			cells[i] = sheet.Cell{Value: cv}
		}
		s.rows = append(s.rows, cells)
	}
	return s
}

func (s *memSheet) Name() string { return s.name }
func (s *memSheet) Styles() *style.Set { return s.styles }
func (s *memSheet) Exists() bool { return s.exists }
func (s *memSheet) Empty() (bool, error) { return !s.exists || len(s.rows) == 0, nil }

func (s *memSheet) GetOrCreate() error {
	s.exists = true
	return nil
}

func (s *memSheet) Remove() error {
	if s.exists {
		s.removed++
	}
	s.exists = false
	s.reset()
	return nil
}

func (s *memSheet) AppendRow(cells []sheet.Cell) (int, error) {
	s.rows = append(s.rows, append([]sheet.Cell(nil), cells...))
	return len(s.rows), nil
}

func (s *memSheet) MergeRow(row, firstCol, lastCol int) error {
	s.merges = append(s.merges, [3]int{row, firstCol, lastCol})
	return nil
}

func (s *memSheet) Rows() (sheet.Rows, error) {
	out := make([][]cell.Value, len(s.rows))
	for i, r := range s.rows {
		out[i] = make([]cell.Value, len(r))
		for j, c := range r {
			out[i][j] = c.Value
		}
	}
	return &memRows{rows: out, pos: -1}, nil
}

func (s *memSheet) SetColWidth(col int, width float64) error {
	s.widths[col] = width
	return nil
}

func (s *memSheet) SetColHidden(col int, hidden bool) error {
	s.hidden[col] = hidden
	return nil
}

func (s *memSheet) GroupCols(first, last int, hidden bool) error {
	h := 0
	if hidden {
		h = 1
	}
	s.groups = append(s.groups, [3]int{first, last, h})
	return nil
}

func (s *memSheet) HideColsFrom(col int) error {
	s.hideFrom = col
	return nil
}

func (s *memSheet) AddDataValidation(ref string, rule *excelize.DataValidation) error {
	s.dvs[ref] = rule
	return nil
}

func (s *memSheet) AddConditionalFormat(ref string, rule *sheet.ConditionalFormat) error {
	s.cfs[ref] = rule
	return nil
}

func (s *memSheet) SetTableRange(ref, name, _ string) error {
	s.tableRef, s.tableName = ref, name
	return nil
}

func (s *memSheet) SetFreezePane(cols, rows int) error {
	s.freeze = [2]int{cols, rows}
	return nil
}

func (s *memSheet) SetPrintTitleRows(first, last int) error {
	s.printTitles = [2]int{first, last}
	return nil
}

type memRows struct {
	rows   [][]cell.Value
	pos    int
	closed bool
}

func (r *memRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *memRows) Value() []cell.Value { return r.rows[r.pos] }

func (r *memRows) Err() error { return nil }

func (r *memRows) Close() error {
	r.closed = true
	return nil
}
