// Package cfgstruct 按配置结构体的字段注册命令行参数
//
// 字段通过标签描述参数：
//
//	type Config struct {
//		Dir     string        `help:"导出目录" default:"$ROOT/exports"`
//		Timeout time.Duration `help:"超时时间" default:"30s"`
//		Redis   redis.Config  // 嵌套结构体的参数名为 redis.host
//	}
//
// 默认值中的 $ROOT、$HOME 以及 BindOpt 设置的变量会被展开。
package cfgstruct

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// BindOpt 修改默认值中可以使用的变量
type BindOpt func(vars map[string]string)

// ConfDir 设置 $CONFDIR，没有设置 $ROOT 时同时作为 $ROOT
func ConfDir(path string) BindOpt {
	return func(vars map[string]string) {
		path = os.ExpandEnv(path)
		vars["CONFDIR"] = path
		if _, ok := vars["ROOT"]; !ok {
			vars["ROOT"] = path
		}
	}
}

// UseVar 设置默认值中的变量
func UseVar(name, value string) BindOpt {
	return func(vars map[string]string) {
		vars[name] = value
	}
}

// DefaultConfDir 用户配置目录下的应用目录
func DefaultConfDir(app string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", app)
	}
	return filepath.Join(dir, app)
}

// Bind 为 config 的每个导出字段注册一个参数，config 必须是结构体指针
func Bind(flags *pflag.FlagSet, config interface{}, opts ...BindOpt) {
	vars := map[string]string{}
	if home, err := os.UserHomeDir(); err == nil {
		vars["HOME"] = home
	}
	for _, opt := range opts {
		opt(vars)
	}
	if _, ok := vars["ROOT"]; !ok {
		vars["ROOT"] = "."
	}
	ptr := reflect.ValueOf(config)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("invalid config type: %#v. Expecting pointer to struct.", config))
	}
	bindConfig(flags, "", ptr.Elem(), vars)
}

func bindConfig(flags *pflag.FlagSet, prefix string, val reflect.Value, vars map[string]string) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		if !field.IsExported() || field.Tag.Get("internal") == "true" {
			continue
		}
		name := prefix + hyphenate(field.Name)
		if field.Anonymous {
			name = strings.TrimSuffix(prefix, ".")
		}
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			next := name + "."
			if name == "" {
				next = ""
			}
			bindConfig(flags, next, fieldVal, vars)
			continue
		}
		help := field.Tag.Get("help")
		def := expand(field.Tag.Get("default"), vars)
		ptr := fieldVal.Addr().Interface()
		switch p := ptr.(type) {
		case *string:
			flags.StringVar(p, name, def, help)
		case *bool:
			flags.BoolVar(p, name, cast.ToBool(def), help)
		case *time.Duration:
			flags.DurationVar(p, name, cast.ToDuration(def), help)
		case *int:
			flags.IntVar(p, name, cast.ToInt(def), help)
		case *int64:
			flags.Int64Var(p, name, cast.ToInt64(def), help)
		case *uint:
			flags.UintVar(p, name, cast.ToUint(def), help)
		case *uint64:
			flags.Uint64Var(p, name, cast.ToUint64(def), help)
		case *float64:
			flags.Float64Var(p, name, cast.ToFloat64(def), help)
		case *[]string:
			var items []string
			if def != "" {
				items = strings.Split(def, ",")
			}
			flags.StringSliceVar(p, name, items, help)
		default:
			panic(fmt.Sprintf("invalid field type: %s", field.Type))
		}
		if field.Tag.Get("hidden") == "true" {
			_ = flags.MarkHidden(name)
		}
	}
}

func expand(s string, vars map[string]string) string {
	return os.Expand(s, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}

// hyphenate MaxIdleConn 转为 max-idle-conn，连续的大写字母视为一个单词
func hyphenate(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
