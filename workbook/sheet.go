package workbook

import (
	"errors"
	"strconv"
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var _ sheet.Sheet = (*Sheet)(nil)

const (
	lastColumn       = "XFD"
	printTitlesName  = "_xlnm.Print_Titles"
	placeholderSheet = "Sheet"
)

// Sheet 工作簿中的一个工作表，名称不区分大小写
type Sheet struct {
	wb   *Workbook
	name string
	// 最后写入的行号，counted 为 false 时需要重新统计
	last    int
	counted bool
}

func (s *Sheet) Name() string { return s.name }

func (s *Sheet) Styles() *style.Set { return s.wb.styles }

func (s *Sheet) Exists() bool {
	idx, err := s.wb.file.GetSheetIndex(s.name)
	return err == nil && idx >= 0
}

func (s *Sheet) Empty() (bool, error) {
	if !s.Exists() {
		return true, nil
	}
	last, err := s.lastRow()
	if err != nil {
		return false, err
	}
	return last == 0, nil
}

func (s *Sheet) GetOrCreate() error {
	f := s.wb.file
	if s.Exists() {
		if strings.EqualFold(s.wb.pristine, s.name) {
			s.wb.pristine = ""
		}
		return nil
	}
	s.last, s.counted = 0, true
	if s.wb.pristine != "" {
		if idx, _ := f.GetSheetIndex(s.wb.pristine); idx >= 0 {
			old := s.wb.pristine
			s.wb.pristine = ""
			return Error.Wrap(f.SetSheetName(old, s.name))
		}
		s.wb.pristine = ""
	}
	_, err := f.NewSheet(s.name)
	return Error.Wrap(err)
}

// Remove 删除工作表，文档中只剩这一个工作表时先补一个占位工作表
func (s *Sheet) Remove() error {
	if !s.Exists() {
		return nil
	}
	f := s.wb.file
	// 表格定义不会随工作表一起删除，且名称在整个文档中唯一
	tables, err := f.GetTables(s.name)
	if err != nil {
		return Error.Wrap(err)
	}
	for _, t := range tables {
		if err = f.DeleteTable(t.Name); err != nil {
			return Error.Wrap(err)
		}
	}
	if len(f.GetSheetList()) == 1 {
		name := s.placeholderName()
		if _, err = f.NewSheet(name); err != nil {
			return Error.Wrap(err)
		}
		s.wb.pristine = name
	}
	if err = f.DeleteSheet(s.name); err != nil {
		return Error.Wrap(err)
	}
	s.last, s.counted = 0, false
	return nil
}

func (s *Sheet) placeholderName() string {
	for i := 1; ; i++ {
		name := placeholderSheet + strconv.Itoa(i)
		if !strings.EqualFold(name, s.name) {
			return name
		}
	}
}

// lastRow 最后一个有内容的行号
func (s *Sheet) lastRow() (int, error) {
	if s.counted {
		return s.last, nil
	}
	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return 0, Error.Wrap(err)
	}
	s.last, s.counted = len(rows), true
	return s.last, nil
}

func (s *Sheet) AppendRow(cells []sheet.Cell) (int, error) {
	last, err := s.lastRow()
	if err != nil {
		return 0, err
	}
	row := last + 1
	for i, c := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return 0, Error.Wrap(err)
		}
		if err = s.setValue(ref, c.Value); err != nil {
			return 0, err
		}
		if c.Style == "" {
			continue
		}
		id, err := s.wb.styleID(c.Style)
		if err != nil {
			return 0, err
		}
		if err = s.wb.file.SetCellStyle(s.name, ref, ref, id); err != nil {
			return 0, Error.Wrap(err)
		}
	}
	s.last = row
	return row, nil
}

func (s *Sheet) setValue(ref string, v cell.Value) error {
	f := s.wb.file
	var err error
	switch v.Kind() {
	case cell.KindBlank:
		return nil
	case cell.KindText:
		err = f.SetCellStr(s.name, ref, v.Text())
	case cell.KindNumber:
		err = f.SetCellFloat(s.name, ref, v.Number(), -1, 64)
	case cell.KindBool:
		err = f.SetCellBool(s.name, ref, v.Bool())
	case cell.KindTime:
		err = f.SetCellValue(s.name, ref, v.Time())
	case cell.KindFormula:
		err = f.SetCellFormula(s.name, ref, v.Formula())
	default:
		err = errors.New("unsupported cell kind " + v.Kind().String())
	}
	return Error.Wrap(err)
}

func (s *Sheet) MergeRow(row, firstCol, lastCol int) error {
	tl, err := excelize.CoordinatesToCellName(firstCol, row)
	if err != nil {
		return Error.Wrap(err)
	}
	br, err := excelize.CoordinatesToCellName(lastCol, row)
	if err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(s.wb.file.MergeCell(s.name, tl, br))
}

func (s *Sheet) Rows() (sheet.Rows, error) {
	rows, err := s.wb.file.Rows(s.name)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &rowReader{sheet: s, rows: rows}, nil
}

func (s *Sheet) SetColWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(s.wb.file.SetColWidth(s.name, name, name, width))
}

func (s *Sheet) SetColHidden(col int, hidden bool) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(s.wb.file.SetColVisible(s.name, name, !hidden))
}

func (s *Sheet) GroupCols(firstCol, lastCol int, hidden bool) error {
	f := s.wb.file
	names := make([]string, 0, lastCol-firstCol+1)
	for col := firstCol; col <= lastCol; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return Error.Wrap(err)
		}
		if err = f.SetColOutlineLevel(s.name, name, 1); err != nil {
			return Error.Wrap(err)
		}
		names = append(names, name)
	}
	if !hidden || len(names) == 0 {
		return nil
	}
	return Error.Wrap(f.SetColVisible(s.name, names[0]+":"+names[len(names)-1], false))
}

func (s *Sheet) HideColsFrom(col int) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return Error.Wrap(err)
	}
	if name == lastColumn {
		return Error.Wrap(s.wb.file.SetColVisible(s.name, name, false))
	}
	return Error.Wrap(s.wb.file.SetColVisible(s.name, name+":"+lastColumn, false))
}

func (s *Sheet) AddDataValidation(ref string, rule *excelize.DataValidation) error {
	if rule == nil {
		return nil
	}
	dv := *rule
	dv.Sqref = ref
	return Error.Wrap(s.wb.file.AddDataValidation(s.name, &dv))
}

func (s *Sheet) AddConditionalFormat(ref string, rule *sheet.ConditionalFormat) error {
	if rule == nil {
		return nil
	}
	opts := rule.Options
	if rule.Style != "" {
		id, err := s.wb.condStyleID(rule.Style)
		if err != nil {
			return err
		}
		opts.Format = &id
	}
	return Error.Wrap(s.wb.file.SetConditionalFormat(s.name, ref, []excelize.ConditionalFormatOptions{opts}))
}

// SetTableRange 把区域设置为表格，名称已被其他工作表占用时追加序号
func (s *Sheet) SetTableRange(ref, name, styleName string) error {
	stripes := true
	for i := 1; ; i++ {
		tableName := name
		if i > 1 {
			tableName = name + "_" + strconv.Itoa(i)
		}
		err := s.wb.file.AddTable(s.name, &excelize.Table{
			Range:          ref,
			Name:           tableName,
			StyleName:      styleName,
			ShowRowStripes: &stripes,
		})
		if errors.Is(err, excelize.ErrExistsTableName) {
			continue
		}
		return Error.Wrap(err)
	}
}

func (s *Sheet) SetFreezePane(cols, rows int) error {
	if cols == 0 && rows == 0 {
		return Error.Wrap(s.wb.file.SetPanes(s.name, &excelize.Panes{}))
	}
	topLeft, err := excelize.CoordinatesToCellName(cols+1, rows+1)
	if err != nil {
		return Error.Wrap(err)
	}
	pane := "bottomRight"
	switch {
	case cols == 0:
		pane = "bottomLeft"
	case rows == 0:
		pane = "topRight"
	}
	return Error.Wrap(s.wb.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		XSplit:      cols,
		YSplit:      rows,
		TopLeftCell: topLeft,
		ActivePane:  pane,
		Selection:   []excelize.Selection{{SQRef: topLeft, ActiveCell: topLeft, Pane: pane}},
	}))
}

func (s *Sheet) SetPrintTitleRows(first, last int) error {
	dn := &excelize.DefinedName{
		Name:     printTitlesName,
		RefersTo: "'" + strings.ReplaceAll(s.name, "'", "''") + "'!$" + strconv.Itoa(first) + ":$" + strconv.Itoa(last),
		Scope:    s.name,
	}
	f := s.wb.file
	err := f.SetDefinedName(dn)
	if errors.Is(err, excelize.ErrDefinedNameDuplicate) {
		if err = f.DeleteDefinedName(dn); err == nil {
			err = f.SetDefinedName(dn)
		}
	}
	return Error.Wrap(err)
}

// rowReader 按物理行号读取，空行返回空切片
type rowReader struct {
	sheet *Sheet
	rows  *excelize.Rows
	row   int
	cur   []cell.Value
	err   error
}

func (r *rowReader) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	r.row++
	raw, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		r.err = Error.Wrap(err)
		return false
	}
	r.cur = make([]cell.Value, len(raw))
	for i, v := range raw {
		if v == "" {
			continue
		}
		if r.cur[i], err = r.convert(i+1, v); err != nil {
			r.err = err
			return false
		}
	}
	return true
}

// convert 按单元格类型转换原始值
func (r *rowReader) convert(col int, raw string) (cell.Value, error) {
	ref, err := excelize.CoordinatesToCellName(col, r.row)
	if err != nil {
		return cell.Value{}, Error.Wrap(err)
	}
	typ, err := r.sheet.wb.file.GetCellType(r.sheet.name, ref)
	if err != nil {
		return cell.Value{}, Error.Wrap(err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return cell.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, err := cast.StringToDate(raw); err == nil {
			return cell.Time(t), nil
		}
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return cell.Number(f), nil
		}
	}
	return cell.Text(raw), nil
}

func (r *rowReader) Value() []cell.Value { return r.cur }

func (r *rowReader) Err() error {
	if r.err != nil {
		return r.err
	}
	return Error.Wrap(r.rows.Error())
}

func (r *rowReader) Close() error {
	return Error.Wrap(r.rows.Close())
}
