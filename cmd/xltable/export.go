package main

import (
	"context"
	"fmt"

	"github.com/opdss/xltable/contracts/event"
	"github.com/opdss/xltable/contracts/excel"
	"github.com/opdss/xltable/contracts/storage"
	"github.com/opdss/xltable/db"
	"github.com/opdss/xltable/excel/export"
	"github.com/opdss/xltable/process"
	"github.com/opdss/xltable/provider"
	store "github.com/opdss/xltable/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "export the rows of a sql query through a table schema",
		RunE:  cmdExport,
	}
	exportCfg struct {
		Schema            string `help:"YAML 表格定义" default:""`
		Query             string `help:"查询语句，每一行按列的属性名取值" default:""`
		Format            string `help:"导出格式[xlsx|csv]" default:"xlsx"`
		Filename          string `help:"导出文件名，不带后缀" default:""`
		Dir               string `help:"导出目录，为空时使用系统临时目录" default:""`
		SheetName         string `help:"工作表名称" default:"Sheet1"`
		Title             string `help:"标题" default:""`
		Description       string `help:"说明" default:""`
		MaxRows           int    `help:"最大导出行数" default:"1000000"`
		SingleFileMaxRows int    `help:"单个文件最大行数，超出时切分并打包成 zip" default:"100000"`
		PageSize          int    `help:"每次查询的行数" default:"1000"`
		Cursor            string `help:"按该列递增分批查询，为空时按 offset 分页" default:""`
		Storage           string `help:"上传到文件存储[|local|s3|oss|cos]，为空时只导出到本地" default:""`
		DB                db.Config
		Local             store.LocalConfig
		S3                store.S3Config
		Oss               store.OssConfig
		Cos               store.CosConfig
	}
)

func init() {
	process.Bind(exportCmd, &exportCfg)
}

func cmdExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.Ctx(cmd)
	defer cancel()

	sch, err := loadSchema(exportCfg.Schema)
	if err != nil {
		return err
	}
	if exportCfg.Query == "" {
		return fmt.Errorf("--query is required")
	}
	tbl, err := sch.Table()
	if err != nil {
		return err
	}
	set, err := sch.Styles()
	if err != nil {
		return err
	}

	gdb, err := db.NewDB(zap.L(), exportCfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()
	var dp export.DataProvider
	popts := []provider.Option{provider.WithContext(ctx), provider.WithLimit(exportCfg.PageSize)}
	if exportCfg.Cursor != "" {
		dp = provider.NewSQLCursor(gdb, exportCfg.Query, nil, exportCfg.Cursor, popts...)
	} else {
		dp = provider.NewSQL[map[string]any](gdb, exportCfg.Query, nil, popts...)
	}

	opts := []export.Option{
		export.WithStyles(set),
		export.WithLogger(zap.L()),
		export.WithMaxRows(exportCfg.MaxRows),
		export.WithSingleFileMaxRows(exportCfg.SingleFileMaxRows),
		export.WithFilename(exportCfg.Filename),
		export.WithDir(exportCfg.Dir),
		export.WithSheetName(exportCfg.SheetName),
		export.WithTitle(exportCfg.Title),
		export.WithDescription(exportCfg.Description),
		export.WithSubscriber(event.SubscribeFunc(logProgress)),
	}
	var exporter excel.Exporter
	switch exportCfg.Format {
	case export.ExcelSuffix:
		exporter = export.NewExcel(tbl, dp, opts...)
	case export.CsvSuffix:
		exporter = export.NewCsv(tbl, dp, append(opts, export.WithBOM())...)
	default:
		return fmt.Errorf("unsupported export format %q", exportCfg.Format)
	}

	var result string
	if exportCfg.Storage == "" {
		result, err = exporter.Export(ctx)
	} else {
		var st storage.Store
		if st, err = openStorage(ctx, exportCfg.Storage); err != nil {
			return err
		}
		result, err = exporter.ExportToStorage(ctx, st)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func openStorage(ctx context.Context, kind string) (storage.Store, error) {
	switch kind {
	case "local":
		return store.NewLocal(exportCfg.Local)
	case "s3":
		return store.NewS3(ctx, exportCfg.S3)
	case "oss":
		return store.NewOss(exportCfg.Oss)
	case "cos":
		return store.NewCos(exportCfg.Cos)
	}
	return nil, fmt.Errorf("unsupported storage %q", kind)
}

func logProgress(evt event.Event) {
	p, ok := evt.Payload().(export.Progress)
	if !ok {
		return
	}
	zap.L().Info(string(evt.Topic()),
		zap.Int("part", p.Part), zap.Int("rows", p.Rows), zap.Int("total", p.Total), zap.String("file", p.File))
}
