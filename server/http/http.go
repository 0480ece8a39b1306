// Package http 以 HTTP 接口提供模板下载和上传检查
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var Error = errs.Class("http")

type Config struct {
	Endpoint        string        `help:"访问地址" default:"http://localhost:8989"`
	Address         string        `help:"监听地址" default:"0.0.0.0:8989"`
	ShutdownTimeout time.Duration `help:"关闭时等待请求结束的时间" default:"5s"`
}

type Server struct {
	*gin.Engine
	httpSrv *http.Server
	logger  *zap.Logger
	config  Config
}

func NewServer(engine *gin.Engine, logger *zap.Logger, conf Config) *Server {
	return &Server{
		Engine: engine,
		logger: logger,
		config: conf,
		httpSrv: &http.Server{
			Addr:    conf.Address,
			Handler: engine,
		},
	}
}

// Start 阻塞直到服务关闭，ctx 取消时自动关闭
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return Error.Wrap(err)
	}
	return s.Serve(ctx, lis)
}

func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("http server start", zap.String("address", lis.Addr().String()), zap.String("endpoint", s.config.Endpoint))
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop(context.Background())
		case <-stopped:
		}
	}()
	if err := s.httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return Error.Wrap(err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return Error.Wrap(err)
	}
	s.logger.Info("http server exiting")
	return nil
}
