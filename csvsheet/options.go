package csvsheet

import (
	"github.com/opdss/xltable/style"
	"go.uber.org/zap"
)

type Option func(opt *options)

type options struct {
	comma  rune       //分隔符
	bom    bool       //写入时加 UTF-8 BOM，Excel 打开中文不会乱码
	styles *style.Set //用于判断数字列是否按日期输出
	logger *zap.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		comma:  ',',
		logger: zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

// WithComma 字段分隔符，默认逗号
func WithComma(r rune) Option {
	return func(opt *options) {
		if r != 0 {
			opt.comma = r
		}
	}
}

// WithBOM 输出时写入 UTF-8 BOM
func WithBOM() Option {
	return func(opt *options) {
		opt.bom = true
	}
}

func WithStyles(set *style.Set) Option {
	return func(opt *options) {
		if set != nil {
			opt.styles = set
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
