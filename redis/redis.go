package redis

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/errs"
)

var ErrRedis = errs.Class("redis")

// Config 保存工作簿时使用的分布式锁的连接配置
type Config struct {
	Host            string        `help:"redis主机" default:"127.0.0.1"`
	Port            int           `help:"redis端口" default:"6379"`
	Password        string        `help:"redis密码" default:""`
	Db              int           `help:"redis数据库" default:"0"`
	LockPrefix      string        `help:"锁的键名前缀" default:"xltable:lock:"`
	MaxIdleConn     int           `help:"连接池中空闲连接的最大数量" default:"0"`
	MaxActiveConns  int           `help:"最大的活动连接数量" default:"0"`
	ConnMaxLifetime time.Duration `help:"连接可复用的最大时间" default:"0"`
	ConnMaxIdleTime time.Duration `help:"连接可以空闲的最长时间" default:"0"`
	DialTimeout     time.Duration `help:"建立连接的超时时间" default:"0"`
	ReadTimeout     time.Duration `help:"读超时" default:"0"`
	WriteTimeout    time.Duration `help:"写超时" default:"0"`
}

func positive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// Options 转换为客户端选项，为 0 的配置使用客户端的默认值
func (conf Config) Options() *redis.Options {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password: conf.Password,
		DB:       conf.Db,
	}
	positive(&opts.MaxActiveConns, conf.MaxActiveConns)
	positive(&opts.MaxIdleConns, conf.MaxIdleConn)
	positive(&opts.ConnMaxLifetime, conf.ConnMaxLifetime)
	positive(&opts.ConnMaxIdleTime, conf.ConnMaxIdleTime)
	positive(&opts.DialTimeout, conf.DialTimeout)
	positive(&opts.ReadTimeout, conf.ReadTimeout)
	positive(&opts.WriteTimeout, conf.WriteTimeout)
	return opts
}

// LockKey 资源对应的锁键名
func (conf Config) LockKey(resource string) string {
	return conf.LockPrefix + resource
}

// NewRedis 连接并 ping 一次，失败时关闭客户端
func NewRedis(conf Config) (*redis.Client, error) {
	client := redis.NewClient(conf.Options())
	timeout := 3 * time.Second
	positive(&timeout, conf.DialTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ErrRedis.New("init redis connection %s: %w", conf.Options().Addr, err)
	}
	return client, nil
}
