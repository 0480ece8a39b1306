package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/csvsheet"
	"github.com/opdss/xltable/process"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/workbook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "read a sheet through a schema and report invalid cells",
		RunE:  cmdCheck,
	}
	checkCfg struct {
		Schema string `help:"YAML 表格定义" default:""`
		File   string `help:"要检查的 xlsx 或 csv 文件" default:""`
		Sheet  string `help:"工作表名称，为空时使用第一个工作表" default:""`
		Policy string `help:"异常处理方式[RaiseCellException|RaiseRowException|RaiseSheetException|IgnoreRow]" default:"RaiseSheetException"`
		Comma  string `help:"csv 分隔符" default:","`
	}
)

func init() {
	process.Bind(checkCmd, &checkCfg)
}

func cmdCheck(cmd *cobra.Command, args []string) error {
	sch, err := loadSchema(checkCfg.Schema)
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
	policy, err := table.ParsePolicy(checkCfg.Policy)
	if err != nil {
		return err
	}

	var sh sheet.Sheet
	if strings.EqualFold(filepath.Ext(checkCfg.File), ".csv") {
		f, err := os.Open(checkCfg.File)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		comma := []rune(checkCfg.Comma)
		if len(comma) != 1 {
			return fmt.Errorf("invalid csv separator %q", checkCfg.Comma)
		}
		if sh, err = csvsheet.Read(f, sch.Name(), csvsheet.WithComma(comma[0]), csvsheet.WithStyles(set)); err != nil {
			return err
		}
	} else {
		wb, err := workbook.Open(checkCfg.File, workbook.WithStyles(set), workbook.WithLogger(zap.L()))
		if err != nil {
			return err
		}
		defer func() { _ = wb.Close() }()
		name := checkCfg.Sheet
		if name == "" {
			name = wb.SheetNames()[0]
		}
		sh = wb.Sheet(name)
	}

	out := cmd.OutOrStdout()
	reader := tbl.Read(sh, table.WithPolicy(policy))
	defer func() { _ = reader.Close() }()
	valid := 0
	for reader.Next() {
		valid++
	}
	err = reader.Err()
	var sheetErr *table.SheetError
	var rowErr *table.RowError
	switch {
	case err == nil:
	case errors.As(err, &sheetErr):
		for _, r := range sheetErr.Rows {
			_, _ = fmt.Fprintln(out, r.Error())
		}
	case errors.As(err, &rowErr):
		_, _ = fmt.Fprintln(out, rowErr.Error())
	default:
		_, _ = fmt.Fprintln(out, err.Error())
	}
	_, _ = fmt.Fprintf(out, "%s: %d valid rows\n", sh.Name(), valid)
	return err
}
