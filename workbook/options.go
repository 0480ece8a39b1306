package workbook

import (
	"time"

	"github.com/opdss/xltable/contracts/locker"
	"github.com/opdss/xltable/style"
	"go.uber.org/zap"
)

type Option func(opt *options)

type options struct {
	styles    *style.Set    //样式集，默认使用内置样式
	logger    *zap.Logger   //日志
	locker    locker.Locker //保存时使用的锁，多个进程写同一个文件时使用
	lockWait  time.Duration //等待锁的最长时间
	timestamp bool          //保存时文件名追加时间戳
	now       func() time.Time
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:   zap.NewNop(),
		lockWait: time.Second * 10,
		now:      time.Now,
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

// WithStyles 文档使用的样式集
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

// WithLocker 保存文件前先加锁，wait 为等待锁的最长时间
func WithLocker(l locker.Locker, wait time.Duration) Option {
	return func(opt *options) {
		opt.locker = l
		if wait > 0 {
			opt.lockWait = wait
		}
	}
}

// WithTimestamp 保存时在文件名后追加时间戳，例如 report_20240102150405.xlsx
func WithTimestamp() Option {
	return func(opt *options) {
		opt.timestamp = true
	}
}

type SheetOption func(opt *sheetOptions)

type sheetOptions struct {
	active bool
}

// Active 打开文档时显示该工作表，一个文档最多一个
func Active() SheetOption {
	return func(opt *sheetOptions) {
		opt.active = true
	}
}
