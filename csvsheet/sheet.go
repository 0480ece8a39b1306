// Package csvsheet 以 CSV 文本作为工作表，和 xlsx 工作表共用同一套表格定义
//
// CSV 没有样式、合并单元格和数据验证，这些操作都会被忽略。
// 日期和时间列按样式的数字格式输出为文本，读取时由列自行解析。
package csvsheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/style"
	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var Error = errs.Class("csvsheet")

var _ sheet.Sheet = (*Sheet)(nil)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
	clockLayout    = "15:04:05.999"
)

var (
	bom          = []byte{0xEF, 0xBB, 0xBF}
	quotedFormat = regexp.MustCompile(`"[^"]*"|\[[^]]*]`)
)

type Sheet struct {
	name    string
	options *options
	styles  *style.Set
	logger  *zap.Logger
	exists  bool
	rows    [][]string
}

// New 空的工作表，GetOrCreate 之前不存在
func New(name string, opts ...Option) (*Sheet, error) {
	o := newOptions(opts...)
	styles := o.styles
	if styles == nil {
		var err error
		if styles, err = style.NewDefaultSet(); err != nil {
			return nil, Error.Wrap(err)
		}
	}
	return &Sheet{name: name, options: o, styles: styles, logger: o.logger}, nil
}

// Read 从 r 读取全部内容
func Read(r io.Reader, name string, opts ...Option) (*Sheet, error) {
	s, err := New(name, opts...)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	cr.Comma = s.options.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if s.rows, err = cr.ReadAll(); err != nil {
		return nil, Error.Wrap(err)
	}
	s.exists = true
	s.logger.Debug("csv sheet loaded", zap.String("sheet", name), zap.Int("rows", len(s.rows)))
	return s, nil
}

// WriteTo 以 CSV 格式写出全部行
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	if s.options.bom {
		if _, err := cw.Write(bom); err != nil {
			return cw.n, Error.Wrap(err)
		}
	}
	fw := csv.NewWriter(cw)
	fw.Comma = s.options.comma
	if err := fw.WriteAll(s.rows); err != nil {
		return cw.n, Error.Wrap(err)
	}
	return cw.n, nil
}

// Records 当前的全部行
func (s *Sheet) Records() [][]string {
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (s *Sheet) Name() string { return s.name }

func (s *Sheet) Styles() *style.Set { return s.styles }

func (s *Sheet) Exists() bool { return s.exists }

func (s *Sheet) Empty() (bool, error) { return len(s.rows) == 0, nil }

func (s *Sheet) GetOrCreate() error {
	s.exists = true
	return nil
}

func (s *Sheet) Remove() error {
	s.exists = false
	s.rows = nil
	return nil
}

func (s *Sheet) AppendRow(cells []sheet.Cell) (int, error) {
	if !s.exists {
		return 0, Error.New("sheet %q does not exist", s.name)
	}
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = s.render(c)
	}
	s.rows = append(s.rows, row)
	return len(s.rows), nil
}

// render 日期时间样式的数字输出为文本，其他按单元格的文本形式
func (s *Sheet) render(c sheet.Cell) string {
	v := c.Value
	if v.Kind() != cell.KindNumber || c.Style == "" {
		return v.String()
	}
	f, err := s.styles.Format(c.Style)
	if err != nil {
		return v.String()
	}
	date, clock := numberFormatKind(f.NumberFormat)
	switch {
	case date:
		t, err := cell.SerialToTime(v.Number())
		if err != nil {
			return v.String()
		}
		if clock {
			return t.Format(datetimeLayout)
		}
		return t.Format(dateLayout)
	case clock && v.Number() >= 0 && v.Number() < 1:
		return time.Time{}.Add(cell.FractionToDuration(v.Number())).Format(clockLayout)
	}
	return v.String()
}

// numberFormatKind 数字格式是否包含日期或者时间部分
func numberFormatKind(nf string) (date, clock bool) {
	nf = strings.ToLower(quotedFormat.ReplaceAllString(nf, ""))
	date = strings.ContainsAny(nf, "yd")
	clock = strings.Contains(nf, "h") || strings.Contains(nf, "ss")
	return date, clock
}

func (s *Sheet) MergeRow(int, int, int) error { return nil }

func (s *Sheet) Rows() (sheet.Rows, error) {
	if !s.exists {
		return nil, Error.New("sheet %q does not exist", s.name)
	}
	return &rows{src: s.rows}, nil
}

func (s *Sheet) SetColWidth(int, float64) error { return nil }

func (s *Sheet) SetColHidden(int, bool) error { return nil }

func (s *Sheet) GroupCols(int, int, bool) error { return nil }

func (s *Sheet) HideColsFrom(int) error { return nil }

func (s *Sheet) AddDataValidation(string, *excelize.DataValidation) error { return nil }

func (s *Sheet) AddConditionalFormat(string, *sheet.ConditionalFormat) error { return nil }

func (s *Sheet) SetTableRange(string, string, string) error { return nil }

func (s *Sheet) SetFreezePane(int, int) error { return nil }

func (s *Sheet) SetPrintTitleRows(int, int) error { return nil }

type rows struct {
	src [][]string
	pos int
	cur []cell.Value
}

func (r *rows) Next() bool {
	if r.pos >= len(r.src) {
		return false
	}
	fields := r.src[r.pos]
	r.pos++
	r.cur = make([]cell.Value, len(fields))
	for i, f := range fields {
		r.cur[i] = parseField(f)
	}
	return true
}

// parseField 字段都按文本读取，数字、布尔和日期留给列解析
func parseField(f string) cell.Value {
	if f == "" {
		return cell.Blank()
	}
	return cell.Text(f)
}

func (r *rows) Value() []cell.Value { return r.cur }

func (r *rows) Err() error { return nil }

func (r *rows) Close() error { return nil }

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
