package export

import (
	"context"
	"io"

	"github.com/opdss/xltable/contracts/excel"
	"github.com/opdss/xltable/contracts/storage"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/workbook"
	"go.uber.org/zap"
)

var _ excel.Exporter = (*Excel)(nil)

// Excel 每个文件一个工作簿，工作簿中只有一个按表格定义写入的工作表
type Excel struct {
	options *options
	table   *table.Table
	dp      DataProvider
}

func NewExcel(t *table.Table, dp DataProvider, opts ...Option) *Excel {
	return &Excel{
		table:   t,
		dp:      dp,
		options: newOptions(opts...),
	}
}

// Export 导出到本地文件，返回本地文件路径
func (e *Excel) Export(ctx context.Context) (string, error) {
	ef, err := e.export(ctx)
	if err != nil {
		return "", err
	}
	defer e.close(ef)
	return ef.Save()
}

// ExportTo 导出到io.Writer
func (e *Excel) ExportTo(ctx context.Context, w io.Writer) (int64, error) {
	ef, err := e.export(ctx)
	if err != nil {
		return 0, err
	}
	defer e.close(ef)
	return ef.WriteTo(w)
}

// ExportToStorage 导出到文件存储，返回下载地址
func (e *Excel) ExportToStorage(ctx context.Context, store storage.Store) (string, error) {
	ef, err := e.export(ctx)
	if err != nil {
		return "", err
	}
	defer e.close(ef)
	return toStorage(ctx, e.options.logger, ef, store)
}

func (e *Excel) close(ef exportFile) {
	if err := ef.Close(); err != nil {
		e.options.logger.Warn("excel export close", zap.String("file", ef.Filepath()), zap.Error(err))
	}
}

// 执行导出
func (e *Excel) export(ctx context.Context) (exportFile, error) {
	return run(ctx, e.options, e.dp, ExcelSuffix, e.write)
}

func (e *Excel) write(b *batch, idx int) (exportFile, error) {
	wb, err := workbook.New(workbook.WithStyles(e.options.styles), workbook.WithLogger(e.options.logger))
	if err != nil {
		return nil, err
	}
	ts, err := wb.AddTable(e.options.sheetName, e.table, workbook.Active())
	if err == nil {
		err = ts.Write(b, table.WithTitle(e.options.title), table.WithDescription(e.options.description))
	}
	if err != nil {
		_ = wb.Close()
		return nil, err
	}
	e.options.logger.Debug("excel part written", zap.Int("part", idx), zap.Int("rows", b.count))
	return newExportWorkbook(getFilename(e.options, idx, ExcelSuffix), wb), nil
}

var _ exportFile = (*exportWorkbook)(nil)

// exportWorkbook 内存中的工作簿
type exportWorkbook struct {
	filepath string
	wb       *workbook.Workbook
}

func newExportWorkbook(filepath string, wb *workbook.Workbook) *exportWorkbook {
	return &exportWorkbook{
		filepath: filepath,
		wb:       wb,
	}
}

func (e *exportWorkbook) Filepath() string {
	return e.filepath
}

func (e *exportWorkbook) WriteTo(w io.Writer) (n int64, err error) {
	return e.wb.WriteTo(w)
}

func (e *exportWorkbook) Close() error {
	return e.wb.Close()
}

func (e *exportWorkbook) Save() (string, error) {
	return e.wb.Save(e.filepath)
}
