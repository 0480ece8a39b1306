package export

import (
	"github.com/opdss/xltable/contracts/event"
	"github.com/opdss/xltable/style"
	"go.uber.org/zap"
)

type Option func(opt *options)

// WithMaxRows 最大数据行数，超过会报异常
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 && n < MaxRows {
			opt.maxRows = n
		}
	}
}

// WithSingleFileMaxRows 单个文件导出最大数量，超出会自动切分
func WithSingleFileMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 && n <= SingleFileMaxRows {
			opt.singleFileMaxRows = n
		}
	}
}

// WithFilename 设置导出文件名,不用加后缀，会自动加
func WithFilename(filename string) Option {
	return func(opt *options) {
		opt.filename = filename
	}
}

// WithDir 没有指定绝对路径的文件名时，导出文件所在的目录，默认为系统临时目录
func WithDir(dir string) Option {
	return func(opt *options) {
		opt.dir = dir
	}
}

// WithSheetName 工作表名称
func WithSheetName(name string) Option {
	return func(opt *options) {
		if name != "" {
			opt.sheetName = name
		}
	}
}

// WithTitle 表头上方的标题行，导出excel时每个文件都会写入
func WithTitle(title string) Option {
	return func(opt *options) {
		opt.title = title
	}
}

// WithDescription 标题下方的说明行
func WithDescription(description string) Option {
	return func(opt *options) {
		opt.description = description
	}
}

// WithStyles 使用的样式集，默认为内置样式
func WithStyles(set *style.Set) Option {
	return func(opt *options) {
		opt.styles = set
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		if logger != nil {
			opt.logger = logger
		}
	}
}

// WithComma csv 分隔符
func WithComma(comma rune) Option {
	return func(opt *options) {
		opt.comma = comma
	}
}

// WithBOM csv 文件开头写入 UTF-8 BOM，Excel 打开时不会乱码
func WithBOM() Option {
	return func(opt *options) {
		opt.bom = true
	}
}

// WithForceZip 是否强制zip压缩，即导出只有一个文件时也压缩成zip
func WithForceZip() Option {
	return func(opt *options) {
		opt.forceZip = true
	}
}

// WithForceSingleFile 是否强制单文件导出，为ture时即使数量超单文件大小也不会切片
func WithForceSingleFile() Option {
	return func(opt *options) {
		opt.forceSingleFile = true
	}
}

// WithSubscriber 订阅导出进度，事件在导出的 goroutine 中同步发布
func WithSubscriber(s event.Subscriber) Option {
	return func(opt *options) {
		if s != nil {
			opt.subscribers = append(opt.subscribers, s)
		}
	}
}

type options struct {
	maxRows           int    //导出最大数量，避免数据提供商出错无限数据
	singleFileMaxRows int    //单个文件导出最大数量，超出会自动切分
	filename          string //文件名，不要加后缀，会自动加
	dir               string //导出目录
	sheetName         string
	title             string
	description       string
	styles            *style.Set
	logger            *zap.Logger
	comma             rune
	bom               bool
	forceZip          bool //是否强制zip压缩，即导出只有一个文件时也压缩成zip
	forceSingleFile   bool //是否强制单文件导出，为ture时即使数量超单文件大小也不会切片
	subscribers       []event.Subscriber
}

func newOptions(opts ...Option) *options {
	o := &options{
		maxRows:           MaxRows,
		singleFileMaxRows: SingleFileMaxRows,
		sheetName:         DefaultSheetName,
		logger:            zap.NewNop(),
		comma:             ',',
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

// batchSize 单个文件的数量，0 表示不切分
func (o *options) batchSize() int {
	if o.forceSingleFile {
		return 0
	}
	return o.singleFileMaxRows
}
