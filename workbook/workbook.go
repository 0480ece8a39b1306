// Package workbook 基于 excelize 的工作簿，为表格提供工作表读写
package workbook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opdss/xltable/contracts/iterator"
	"github.com/opdss/xltable/contracts/storage"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/table"
	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var Error = errs.Class("workbook")

var (
	ErrSheetNamesNotUnique  = errors.New("sheet names are not unique")
	ErrMultipleActiveSheets = errors.New("only one sheet can be active")
	ErrNotSpreadsheet       = errors.New("not a xlsx document")
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// timestampLayout 保存文件名追加的时间戳格式
const timestampLayout = "20060102_150405"

type Workbook struct {
	options *options
	file    *excelize.File
	styles  *style.Set
	logger  *zap.Logger

	// 同一个 Format 只注册一次样式
	styleIDs map[*style.Format]int
	condIDs  map[*style.Format]int

	sheets map[string]*Sheet
	tables []*TableSheet
	// pristine 新建文档自带、还未被使用的工作表，创建第一个工作表时直接改名
	pristine string
}

// New 新建空白工作簿
func New(opts ...Option) (*Workbook, error) {
	f := excelize.NewFile()
	wb, err := newWorkbook(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	wb.pristine = f.GetSheetName(0)
	return wb, nil
}

// Open 打开本地 xlsx 文件
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	wb, err := newWorkbook(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader 从 io.Reader 读取 xlsx 文档，非 xlsx 内容返回 ErrNotSpreadsheet
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if mt := mimetype.Detect(data); !mt.Is(xlsxMime) {
		return nil, Error.New("%w: detected %s", ErrNotSpreadsheet, mt.String())
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	wb, err := newWorkbook(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wb, nil
}

func newWorkbook(f *excelize.File, opts ...Option) (*Workbook, error) {
	o := newOptions(opts...)
	styles := o.styles
	if styles == nil {
		var err error
		if styles, err = style.NewDefaultSet(); err != nil {
			return nil, Error.Wrap(err)
		}
	}
	return &Workbook{
		options:  o,
		file:     f,
		styles:   styles,
		logger:   o.logger,
		styleIDs: map[*style.Format]int{},
		condIDs:  map[*style.Format]int{},
		sheets:   map[string]*Sheet{},
	}, nil
}

// File 底层的 excelize 文档
func (wb *Workbook) File() *excelize.File { return wb.file }

func (wb *Workbook) Styles() *style.Set { return wb.styles }

// SheetNames 文档中所有工作表，按显示顺序
func (wb *Workbook) SheetNames() []string { return wb.file.GetSheetList() }

// Sheet 按名称获取工作表，工作表不需要已经存在
func (wb *Workbook) Sheet(name string) *Sheet {
	key := strings.ToLower(name)
	if sh, ok := wb.sheets[key]; ok {
		return sh
	}
	sh := &Sheet{wb: wb, name: name}
	wb.sheets[key] = sh
	return sh
}

// AddTable 注册一个模板工作表，保存时按注册顺序排在最前面
func (wb *Workbook) AddTable(name string, t *table.Table, opts ...SheetOption) (*TableSheet, error) {
	so := &sheetOptions{}
	for i := range opts {
		opts[i](so)
	}
	for _, ts := range wb.tables {
		if strings.EqualFold(ts.Name(), name) {
			return nil, Error.New("%w: %q", ErrSheetNamesNotUnique, name)
		}
		if so.active && ts.active {
			return nil, Error.New("%w: %q and %q", ErrMultipleActiveSheets, ts.Name(), name)
		}
	}
	ts := &TableSheet{Sheet: wb.Sheet(name), table: t, active: so.active}
	wb.tables = append(wb.tables, ts)
	return ts, nil
}

// Tables 已注册的模板工作表
func (wb *Workbook) Tables() []*TableSheet {
	return append([]*TableSheet(nil), wb.tables...)
}

// Save 整理工作表顺序后保存到 path，返回实际保存的路径
func (wb *Workbook) Save(path string) (saved string, err error) {
	if wb.options.locker != nil {
		if err = wb.options.locker.TryLock(wb.options.lockWait); err != nil {
			return "", Error.Wrap(err)
		}
		defer func() {
			if uerr := wb.options.locker.Unlock(); uerr != nil {
				wb.logger.Warn("workbook unlock failed", zap.String("path", path), zap.Error(uerr))
			}
		}()
	}
	if err = wb.arrange(); err != nil {
		return "", err
	}
	saved = path
	if wb.options.timestamp {
		ext := filepath.Ext(path)
		saved = strings.TrimSuffix(path, ext) + "_" + wb.options.now().Format(timestampLayout) + ext
	}
	if err = wb.file.SaveAs(saved); err != nil {
		return "", Error.Wrap(err)
	}
	wb.logger.Debug("workbook saved", zap.String("path", saved), zap.Strings("sheets", wb.file.GetSheetList()))
	return saved, nil
}

// WriteTo 整理工作表后写入 w
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	if err := wb.arrange(); err != nil {
		return 0, err
	}
	n, err := wb.file.WriteTo(w)
	return n, Error.Wrap(err)
}

func (wb *Workbook) Bytes() ([]byte, error) {
	if err := wb.arrange(); err != nil {
		return nil, err
	}
	buf, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return buf.Bytes(), nil
}

// SaveToStorage 写入文件存储，返回访问地址
func (wb *Workbook) SaveToStorage(ctx context.Context, store storage.Store, key string) (string, error) {
	if err := wb.arrange(); err != nil {
		return "", err
	}
	fr, fw := io.Pipe()
	wg := sync.WaitGroup{}
	wg.Add(2)
	var werr, perr error
	go func() {
		defer wg.Done()
		_, werr = wb.file.WriteTo(fw)
		_ = fw.CloseWithError(werr)
	}()
	go func() {
		defer wg.Done()
		perr = store.PutStream(ctx, key, fr)
		_ = fr.CloseWithError(perr)
	}()
	wg.Wait()
	if err := errs.Combine(werr, perr); err != nil {
		wb.logger.Error("workbook save to storage failed", zap.String("key", key), zap.Error(err))
		return "", Error.Wrap(err)
	}
	return store.Url(key), nil
}

func (wb *Workbook) Close() error {
	return Error.Wrap(wb.file.Close())
}

// arrange 已注册的工作表按注册顺序排在前面，并设置活动工作表
func (wb *Workbook) arrange() error {
	var existing []string
	activeName := ""
	for _, ts := range wb.tables {
		if !ts.Exists() {
			continue
		}
		existing = append(existing, ts.Name())
		if ts.active {
			activeName = ts.Name()
		}
	}
	for i, name := range existing {
		list := wb.file.GetSheetList()
		if i < len(list) && list[i] != name {
			if err := wb.file.MoveSheet(name, list[i]); err != nil {
				return Error.Wrap(err)
			}
		}
	}
	// 没有用到的默认工作表不保留
	if wb.pristine != "" && len(wb.file.GetSheetList()) > 1 {
		if err := wb.file.DeleteSheet(wb.pristine); err != nil {
			return Error.Wrap(err)
		}
		wb.pristine = ""
	}
	if activeName == "" && len(existing) > 0 {
		activeName = existing[0]
	}
	if activeName != "" {
		idx, err := wb.file.GetSheetIndex(activeName)
		if err != nil {
			return Error.Wrap(err)
		}
		wb.file.SetActiveSheet(idx)
	}
	return nil
}

// styleID 命名样式在文档中的样式编号
func (wb *Workbook) styleID(name string) (int, error) {
	f, err := wb.styles.Format(name)
	if err != nil {
		return 0, err
	}
	if id, ok := wb.styleIDs[f]; ok {
		return id, nil
	}
	id, err := wb.file.NewStyle(f.Excelize())
	if err != nil {
		return 0, Error.Wrap(err)
	}
	wb.styleIDs[f] = id
	return id, nil
}

func (wb *Workbook) condStyleID(name string) (int, error) {
	f, err := wb.styles.Format(name)
	if err != nil {
		return 0, err
	}
	if id, ok := wb.condIDs[f]; ok {
		return id, nil
	}
	id, err := wb.file.NewConditionalStyle(f.Excelize())
	if err != nil {
		return 0, Error.Wrap(err)
	}
	wb.condIDs[f] = id
	return id, nil
}

// TableSheet 绑定了表格定义的工作表
type TableSheet struct {
	*Sheet
	table  *table.Table
	active bool
}

func (ts *TableSheet) Table() *table.Table { return ts.table }

func (ts *TableSheet) Active() bool { return ts.active }

// Write 把对象写入工作表
func (ts *TableSheet) Write(objects iterator.Iterator[any], opts ...table.WriteOption) error {
	return ts.table.Write(ts.Sheet, objects, opts...)
}

// WriteTemplate 只写入表头等模板内容
func (ts *TableSheet) WriteTemplate(opts ...table.WriteOption) error {
	return ts.table.Write(ts.Sheet, nil, opts...)
}

func (ts *TableSheet) Read(opts ...table.ReadOption) *table.Reader {
	return ts.table.Read(ts.Sheet, opts...)
}
