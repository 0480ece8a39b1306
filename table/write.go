package table

import (
	"strings"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/contracts/iterator"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/style"
	"go.uber.org/zap"
)

type WriteOption func(opt *writeOptions)

type writeOptions struct {
	title       string
	description string
	preserve    bool
}

// WithTitle 表头上方的标题行
func WithTitle(title string) WriteOption {
	return func(opt *writeOptions) {
		opt.title = title
	}
}

// WithDescription 标题下方的描述行
func WithDescription(description string) WriteOption {
	return func(opt *writeOptions) {
		opt.description = description
	}
}

// WithPreserve 先读出已有的数据，与新数据一起重写整个工作表
func WithPreserve() WriteOption {
	return func(opt *writeOptions) {
		opt.preserve = true
	}
}

// encodedRow 已编码的一行
type encodedRow struct {
	rowType any
	cells   []sheet.Cell
}

// layout 写入过程中记录的行号
type layout struct {
	headerRow int
	firstData int //没有数据行时为0
	lastData  int
}

func (l layout) dataRange() (first, last int) {
	if l.firstData == 0 {
		return l.headerRow + 1, l.headerRow + 1
	}
	return l.firstData, l.lastData
}

// Write 把对象写入工作表，工作表已有的内容会被清除
//
// 所有行先全部编码，出错时工作表保持原样；写入过程中出错时删除工作表。
func (t *Table) Write(sh sheet.Sheet, objects iterator.Iterator[any], opts ...WriteOption) (err error) {
	wo := &writeOptions{}
	for i := range opts {
		opts[i](wo)
	}

	if err = t.prepare(sh, wo); err != nil {
		return err
	}

	empty, err := sh.Empty()
	if err != nil {
		return err
	}
	if !empty && wo.preserve {
		existing, err := t.Read(sh).All()
		if err != nil {
			return err
		}
		objects = chain(existing, objects)
	}

	lay := layout{headerRow: 1}
	if wo.title != "" {
		lay.headerRow++
	}
	if wo.description != "" {
		lay.headerRow++
	}
	rows, err := t.encodeRows(objects, lay.headerRow+1)
	if err != nil {
		return err
	}

	if !empty {
		if err = sh.Remove(); err != nil {
			return err
		}
	}
	if err = sh.GetOrCreate(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := sh.Remove(); rerr != nil {
				t.logger.Warn("remove sheet after failed write", zap.String("sheet", sh.Name()), zap.Error(rerr))
			}
		}
	}()

	if err = t.writeBanner(sh, wo.title, t.options.titleStyle); err != nil {
		return err
	}
	if err = t.writeBanner(sh, wo.description, t.options.descriptionStyle); err != nil {
		return err
	}
	if lay.headerRow, err = sh.AppendRow(t.headerCells()); err != nil {
		return err
	}
	for i, r := range rows {
		row, err := sh.AppendRow(r.cells)
		if err != nil {
			return err
		}
		if i == 0 {
			lay.firstData = row
		}
		lay.lastData = row
	}
	if err = t.postProcess(sh, rows, lay); err != nil {
		return err
	}
	t.logger.Debug("table written", zap.String("sheet", sh.Name()), zap.Int("rows", len(rows)))
	return nil
}

// prepare 检查用到的样式是否都已声明
func (t *Table) prepare(sh sheet.Sheet, wo *writeOptions) error {
	styles := sh.Styles()
	if styles == nil {
		return Error.New("sheet %q has no style set", sh.Name())
	}
	for _, name := range t.referencedStyles(wo.title != "", wo.description != "") {
		if !styles.Has(name) {
			return &style.StyleNotFoundError{Sheet: sh.Name(), Name: name, Available: styles.Sorted()}
		}
	}
	return nil
}

func (t *Table) encodeRows(objects iterator.Iterator[any], firstRow int) ([]encodedRow, error) {
	var rows []encodedRow
	if objects == nil {
		return rows, nil
	}
	for index := 0; objects.Next(); index++ {
		if t.options.maxRows > 0 && index >= t.options.maxRows {
			return nil, ErrMaximumLimit
		}
		obj := objects.Value()
		rowType := t.options.rowTyper(obj, index)
		cells := make([]sheet.Cell, len(t.columns))
		for i, c := range t.columns {
			sc, err := c.Cell(obj, rowType, firstRow+index)
			if err != nil {
				return nil, err
			}
			cells[i] = sc
		}
		rows = append(rows, encodedRow{rowType: rowType, cells: cells})
	}
	if ei, ok := objects.(iterator.ErrIterator[any]); ok {
		if err := ei.Err(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (t *Table) writeBanner(sh sheet.Sheet, text, styleName string) error {
	if text == "" {
		return nil
	}
	row, err := sh.AppendRow([]sheet.Cell{{Value: cell.Text(text), Style: styleName}})
	if err != nil {
		return err
	}
	if len(t.columns) > 1 {
		return sh.MergeRow(row, 1, len(t.columns))
	}
	return nil
}

func (t *Table) headerCells() []sheet.Cell {
	cells := make([]sheet.Cell, len(t.columns))
	for i, c := range t.columns {
		cells[i] = sheet.Cell{Value: cell.Text(c.Header()), Style: c.HeaderStyle()}
	}
	return cells
}

func (t *Table) postProcess(sh sheet.Sheet, rows []encodedRow, lay layout) error {
	first, last := lay.dataRange()
	for _, c := range t.columns {
		if err := sh.SetColWidth(c.Index(), c.Width()); err != nil {
			return err
		}
		if c.Hidden() {
			if err := sh.SetColHidden(c.Index(), true); err != nil {
				return err
			}
		}
		if err := t.applyRules(sh, c, rows, first, last); err != nil {
			return err
		}
	}

	if t.options.formatAsTable {
		ref := t.columns[0].Ref(lay.headerRow) + ":" + t.columns[len(t.columns)-1].Ref(last)
		if err := sh.SetTableRange(ref, t.TableName(sh.Name()), t.options.tableStyle); err != nil {
			return err
		}
	}

	freezeRows := 0
	if t.options.freezeHeader {
		freezeRows = first - 1
	}
	freezeCols := 0
	for _, c := range t.columns {
		if c.Frozen() {
			freezeCols = c.Index()
		}
	}
	if freezeRows+freezeCols > 0 {
		if err := sh.SetFreezePane(freezeCols, freezeRows); err != nil {
			return err
		}
	}

	if t.options.printTitles {
		if err := sh.SetPrintTitleRows(1, lay.headerRow); err != nil {
			return err
		}
	}

	for _, g := range t.groups() {
		if err := sh.GroupCols(g[0].Index(), g[len(g)-1].Index(), g[0].Hidden()); err != nil {
			return err
		}
	}

	if t.options.hideExcessColumns {
		return sh.HideColsFrom(len(t.columns) + 1)
	}
	return nil
}

// groups 连续的分组列
func (t *Table) groups() [][]*column.Column {
	var res [][]*column.Column
	var cur []*column.Column
	for _, c := range t.columns {
		if c.Grouped() {
			cur = append(cur, c)
			continue
		}
		if len(cur) > 0 {
			res = append(res, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		res = append(res, cur)
	}
	return res
}

// applyRules 数据验证和条件格式按行类型分段，相同规则的区域合并后一次设置
func (t *Table) applyRules(sh sheet.Sheet, c *column.Column, rows []encodedRow, first, last int) error {
	dvOrder, dvRefs := ranges(c, rows, first, last, c.DataValidation)
	for _, dv := range dvOrder {
		if err := sh.AddDataValidation(strings.Join(dvRefs[dv], " "), dv); err != nil {
			return err
		}
	}
	cfOrder, cfRefs := ranges(c, rows, first, last, c.ConditionalFormat)
	for _, cf := range cfOrder {
		if err := sh.AddConditionalFormat(strings.Join(cfRefs[cf], " "), cf); err != nil {
			return err
		}
	}
	return nil
}

// ranges 把连续使用同一规则的行合并为一个区域，没有数据行时规则应用到表头下一行
func ranges[K comparable](c *column.Column, rows []encodedRow, first, last int, rule func(rowType any) K) ([]K, map[K][]string) {
	var (
		zero  K
		order []K
	)
	refs := map[K][]string{}
	add := func(k K, from, to int) {
		if k == zero {
			return
		}
		ref := c.Ref(from)
		if to > from {
			ref += ":" + c.Ref(to)
		}
		if _, ok := refs[k]; !ok {
			order = append(order, k)
		}
		refs[k] = append(refs[k], ref)
	}

	if len(rows) == 0 {
		add(rule(nil), first, last)
		return order, refs
	}
	start := first
	for i := range rows {
		k := rule(rows[i].rowType)
		if i+1 < len(rows) && rule(rows[i+1].rowType) == k {
			continue
		}
		add(k, start, first+i)
		start = first + i + 1
	}
	return order, refs
}

// chain 已有记录在前，新数据在后
func chain(records []*Record, objects iterator.Iterator[any]) iterator.Iterator[any] {
	items := make([]any, len(records))
	for i, r := range records {
		items[i] = r
	}
	return &chained{head: items, tail: objects}
}

type chained struct {
	head []any
	tail iterator.Iterator[any]
	cur  any
	pos  int
}

func (c *chained) Next() bool {
	if c.pos < len(c.head) {
		c.cur = c.head[c.pos]
		c.pos++
		return true
	}
	if c.tail == nil || !c.tail.Next() {
		return false
	}
	c.cur = c.tail.Value()
	return true
}

func (c *chained) Value() any { return c.cur }

func (c *chained) Err() error {
	if ei, ok := c.tail.(iterator.ErrIterator[any]); ok {
		return ei.Err()
	}
	return nil
}
