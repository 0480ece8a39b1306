// Package logger 按配置创建 zap 日志，输出到文件时按大小切分
package logger

import (
	"os"
	"strings"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Error = errs.Class("logger")

type Config struct {
	Level       string `help:"日志级别[debug|info|warn|error]" default:"info"`
	Encoding    string `help:"日志格式[console|json]" default:"console"`
	Output      string `help:"日志文件，为空或者stderr时输出到标准错误" default:"stderr"`
	MaxSize     int    `help:"单个日志文件的最大大小(MB)" default:"100"`
	MaxBackups  int    `help:"保留的旧日志文件数量" default:"7"`
	MaxAge      int    `help:"旧日志文件保留天数" default:"30"`
	Compress    bool   `help:"压缩旧日志文件" default:"false"`
	Development bool   `help:"开发模式，打印调用栈" default:"false"`
}

// New 创建日志，返回的 Logger 使用完后需要 Sync
func New(conf Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(conf.Encoding) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, Error.New("unknown encoding %q", conf.Encoding)
	}

	opts := []zap.Option{zap.AddCaller()}
	if conf.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	return zap.New(zapcore.NewCore(enc, writer(conf), level), opts...), nil
}

func writer(conf Config) zapcore.WriteSyncer {
	switch conf.Output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr)
	case "stdout":
		return zapcore.Lock(os.Stdout)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.Output,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
	})
}
