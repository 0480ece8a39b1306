package main

import (
	"fmt"
	"time"

	"github.com/opdss/xltable/process"
	"github.com/opdss/xltable/redis"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/workbook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "write an empty templated sheet with headers and validations",
		RunE:  cmdTemplate,
	}
	templateCfg struct {
		Schema      string        `help:"YAML 表格定义" default:""`
		Out         string        `help:"输出的 xlsx 文件" default:"template.xlsx"`
		Sheet       string        `help:"工作表名称，为空时使用表格定义的名称" default:""`
		Title       string        `help:"标题" default:""`
		Description string        `help:"说明" default:""`
		Timestamp   bool          `help:"文件名追加时间戳" default:"false"`
		Lock        bool          `help:"保存前使用 redis 分布式锁" default:"false"`
		LockWait    time.Duration `help:"等待锁的最长时间" default:"10s"`
		Redis       redis.Config
	}
)

func init() {
	process.Bind(templateCmd, &templateCfg)
}

func cmdTemplate(cmd *cobra.Command, args []string) error {
	sch, err := loadSchema(templateCfg.Schema)
	if err != nil {
		return err
	}
	tbl, err := sch.Table()
	if err != nil {
		return err
	}
	set, err := sch.Styles()
	if err != nil {
		return err
	}

	opts := []workbook.Option{workbook.WithStyles(set), workbook.WithLogger(zap.L())}
	if templateCfg.Timestamp {
		opts = append(opts, workbook.WithTimestamp())
	}
	if templateCfg.Lock {
		client, err := redis.NewRedis(templateCfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts = append(opts, workbook.WithLocker(redis.NewLocker(templateCfg.Redis.LockKey(templateCfg.Out), client), templateCfg.LockWait))
	}
	wb, err := workbook.New(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	name := templateCfg.Sheet
	if name == "" {
		name = sch.Name()
	}
	ts, err := wb.AddTable(name, tbl, workbook.Active())
	if err != nil {
		return err
	}
	if err = ts.WriteTemplate(table.WithTitle(templateCfg.Title), table.WithDescription(templateCfg.Description)); err != nil {
		return err
	}
	saved, err := wb.Save(templateCfg.Out)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), saved)
	return nil
}
