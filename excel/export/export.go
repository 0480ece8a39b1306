// Package export 把数据提供者的全部数据按表格定义导出为 xlsx 或 csv 文件
//
// 数据量超过单个文件的上限时切分为多个文件并打包成 zip。
package export

import (
	"context"
	"io"

	"github.com/opdss/xltable/contracts/storage"
	"github.com/opdss/xltable/table"
	"github.com/zeebo/errs"
)

var Error = errs.Class("export")

// ErrMaximumLimit 导出数量超过 WithMaxRows 的限制
var ErrMaximumLimit = table.ErrMaximumLimit

const SingleFileMaxRows = 100000 //单个文件最大数据量
const MaxRows = 1000000          //最大导出数据,防止dataProvider出错无限数据导出

// DefaultSheetName 默认工作表
const DefaultSheetName = "Sheet1"

// ExcelSuffix CsvSuffix 导出文件后缀
const ExcelSuffix = "xlsx"
const CsvSuffix = "csv"
const ZipSuffix = "zip"

// ToExcelStream 导出excel的快捷方法
func ToExcelStream(ctx context.Context, t *table.Table, dp DataProvider, w io.Writer, opt ...Option) (int64, error) {
	return NewExcel(t, dp, opt...).ExportTo(ctx, w)
}

// ToExcelFile 导出excel的快捷方法
func ToExcelFile(ctx context.Context, t *table.Table, dp DataProvider, opt ...Option) (string, error) {
	return NewExcel(t, dp, opt...).Export(ctx)
}

// ToExcelStorage 导出excel到文件存储的快捷方法
func ToExcelStorage(ctx context.Context, t *table.Table, dp DataProvider, store storage.Store, opt ...Option) (string, error) {
	return NewExcel(t, dp, opt...).ExportToStorage(ctx, store)
}

// ToCsvStream 导出csv的快捷方法
func ToCsvStream(ctx context.Context, t *table.Table, dp DataProvider, w io.Writer, opt ...Option) (int64, error) {
	return NewCsv(t, dp, opt...).ExportTo(ctx, w)
}

// ToCsvFile 导出csv的快捷方法
func ToCsvFile(ctx context.Context, t *table.Table, dp DataProvider, opt ...Option) (string, error) {
	return NewCsv(t, dp, opt...).Export(ctx)
}

// ToCsvStorage 导出csv到文件存储的快捷方法
func ToCsvStorage(ctx context.Context, t *table.Table, dp DataProvider, store storage.Store, opt ...Option) (string, error) {
	return NewCsv(t, dp, opt...).ExportToStorage(ctx, store)
}
