package main

import (
	"github.com/gin-gonic/gin"
	"github.com/opdss/xltable/process"
	xhttp "github.com/opdss/xltable/server/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "serve template downloads and upload checks over http",
		RunE:  cmdServe,
	}
	serveCfg struct {
		Schema string `help:"YAML 表格定义" default:""`
		Server xhttp.Config
	}
)

func init() {
	process.Bind(serveCmd, &serveCfg)
}

func cmdServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.Ctx(cmd)
	defer cancel()

	sch, err := loadSchema(serveCfg.Schema)
	if err != nil {
		return err
	}
	h, err := xhttp.NewHandler(sch, zap.L())
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	h.Register(engine)
	return xhttp.NewServer(engine, zap.L(), serveCfg.Server).Start(ctx)
}
