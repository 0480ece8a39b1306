package table

import (
	"reflect"

	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/style"
	"go.uber.org/zap"
)

// RowTyper 计算行类型，用来选择列上的行类型覆盖配置
type RowTyper func(obj any, index int) any

// TypeOf 默认的行类型：对象的动态类型
func TypeOf(obj any, _ int) any {
	if obj == nil {
		return nil
	}
	return reflect.TypeOf(obj)
}

type Option func(opt *options)

type options struct {
	titleStyle             string //标题样式
	descriptionStyle       string //描述样式
	formatAsTable          bool   //数据区域注册为表格对象
	tableStyle             string //表格对象的内置样式名，例如 TableStyleMedium2
	tableName              string //表格对象名称，空时由工作表名生成
	freezeHeader           bool   //冻结表头
	printTitles            bool   //打印时每页重复表头
	hideExcessColumns      bool   //隐藏最后一列之后的所有列
	lookForHeaders         bool   //读取时先查找表头行
	suffixDuplicateHeaders bool   //重复的表头自动加序号
	policy                 ExceptionPolicy
	rowTyper               RowTyper
	rowStyles              []column.RowStyle
	maxRows                int //写入的最大数据行数，0 不限制
	logger                 *zap.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		titleStyle:             style.TitleName,
		descriptionStyle:       style.DescriptionName,
		formatAsTable:          true,
		freezeHeader:           true,
		printTitles:            true,
		hideExcessColumns:      true,
		lookForHeaders:         true,
		suffixDuplicateHeaders: true,
		policy:                 RaiseCellException,
		rowTyper:               TypeOf,
		logger:                 zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

func WithTitleStyle(name string) Option {
	return func(opt *options) {
		opt.titleStyle = name
	}
}

func WithDescriptionStyle(name string) Option {
	return func(opt *options) {
		opt.descriptionStyle = name
	}
}

// WithFormatAsTable 是否把表头和数据注册为表格对象，默认是
func WithFormatAsTable(enabled bool) Option {
	return func(opt *options) {
		opt.formatAsTable = enabled
	}
}

// WithTableStyle 表格对象的内置样式
func WithTableStyle(name string) Option {
	return func(opt *options) {
		opt.tableStyle = name
	}
}

// WithTableName 表格对象名称，同一个文档内不能重复
func WithTableName(name string) Option {
	return func(opt *options) {
		opt.tableName = name
	}
}

// WithFreezeHeader 是否冻结表头，默认是
func WithFreezeHeader(enabled bool) Option {
	return func(opt *options) {
		opt.freezeHeader = enabled
	}
}

// WithPrintTitles 打印时是否每页重复第一行到表头行，默认是
func WithPrintTitles(enabled bool) Option {
	return func(opt *options) {
		opt.printTitles = enabled
	}
}

// WithHideExcessColumns 是否隐藏最后一列之后的列，默认是
func WithHideExcessColumns(enabled bool) Option {
	return func(opt *options) {
		opt.hideExcessColumns = enabled
	}
}

// WithLookForHeaders 读取时是否先查找表头，默认是
func WithLookForHeaders(enabled bool) Option {
	return func(opt *options) {
		opt.lookForHeaders = enabled
	}
}

// WithSuffixDuplicateHeaders 重复表头是否自动加序号，默认是
func WithSuffixDuplicateHeaders(enabled bool) Option {
	return func(opt *options) {
		opt.suffixDuplicateHeaders = enabled
	}
}

// WithExceptionPolicy 读取时的默认异常处理方式
func WithExceptionPolicy(p ExceptionPolicy) Option {
	return func(opt *options) {
		if p.Valid() {
			opt.policy = p
		}
	}
}

// WithRowTyper 自定义行类型
func WithRowTyper(fn RowTyper) Option {
	return func(opt *options) {
		if fn != nil {
			opt.rowTyper = fn
		}
	}
}

// WithRowStyles 应用到所有列的行类型配置，列上的同类配置优先
func WithRowStyles(styles ...column.RowStyle) Option {
	return func(opt *options) {
		opt.rowStyles = append(opt.rowStyles, styles...)
	}
}

// WithMaxRows 写入的最大数据行数，超过返回 ErrMaximumLimit
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n >= 0 {
			opt.maxRows = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		if logger != nil {
			opt.logger = logger
		}
	}
}
