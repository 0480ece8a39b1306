package export

import (
	"context"
	"io"
	"os"

	"github.com/opdss/xltable/contracts/excel"
	"github.com/opdss/xltable/contracts/storage"
	"github.com/opdss/xltable/csvsheet"
	"github.com/opdss/xltable/table"
	"go.uber.org/zap"
)

var _ excel.Exporter = (*Csv)(nil)

// Csv 导出为 csv，日期和时间按列的数字格式输出为文本，标题和说明不写入
type Csv struct {
	dp      DataProvider
	table   *table.Table
	options *options
}

func NewCsv(t *table.Table, dp DataProvider, opts ...Option) *Csv {
	return &Csv{
		dp:      dp,
		table:   t,
		options: newOptions(opts...),
	}
}

func (c *Csv) Export(ctx context.Context) (filename string, err error) {
	ef, err := c.export(ctx)
	if err != nil {
		return "", err
	}
	defer c.close(ef)
	return ef.Save()
}

func (c *Csv) ExportTo(ctx context.Context, w io.Writer) (n int64, err error) {
	ef, err := c.export(ctx)
	if err != nil {
		return 0, err
	}
	defer c.close(ef)
	return ef.WriteTo(w)
}

func (c *Csv) ExportToStorage(ctx context.Context, store storage.Store) (filename string, err error) {
	ef, err := c.export(ctx)
	if err != nil {
		return "", err
	}
	defer c.close(ef)
	return toStorage(ctx, c.options.logger, ef, store)
}

func (c *Csv) close(ef exportFile) {
	if err := ef.Close(); err != nil {
		c.options.logger.Warn("csv export close", zap.String("file", ef.Filepath()), zap.Error(err))
	}
}

func (c *Csv) export(ctx context.Context) (exportFile, error) {
	return run(ctx, c.options, c.dp, CsvSuffix, c.write)
}

func (c *Csv) write(b *batch, idx int) (exportFile, error) {
	opts := []csvsheet.Option{csvsheet.WithComma(c.options.comma), csvsheet.WithLogger(c.options.logger)}
	if c.options.styles != nil {
		opts = append(opts, csvsheet.WithStyles(c.options.styles))
	}
	if c.options.bom {
		opts = append(opts, csvsheet.WithBOM())
	}
	sh, err := csvsheet.New(c.options.sheetName, opts...)
	if err != nil {
		return nil, err
	}
	if err = c.table.Write(sh, b); err != nil {
		return nil, err
	}
	c.options.logger.Debug("csv part written", zap.Int("part", idx), zap.Int("rows", b.count))
	return &exportCsv{filepath: getFilename(c.options, idx, CsvSuffix), sh: sh}, nil
}

var _ exportFile = (*exportCsv)(nil)

// exportCsv 内存中的 csv 内容
type exportCsv struct {
	filepath string
	sh       *csvsheet.Sheet
}

func (e *exportCsv) Filepath() string {
	return e.filepath
}

func (e *exportCsv) WriteTo(w io.Writer) (int64, error) {
	return e.sh.WriteTo(w)
}

func (e *exportCsv) Close() error {
	return nil
}

func (e *exportCsv) Save() (string, error) {
	f, err := os.Create(e.filepath)
	if err != nil {
		return "", Error.Wrap(err)
	}
	if _, err = e.sh.WriteTo(f); err != nil {
		_ = f.Close()
		return "", err
	}
	return e.filepath, Error.Wrap(f.Close())
}
