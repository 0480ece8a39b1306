// xltable 按 YAML 表格定义生成模板、检查文件以及从数据库导出
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opdss/xltable/cfgstruct"
	"github.com/opdss/xltable/logger"
	"github.com/opdss/xltable/process"
	"github.com/opdss/xltable/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "xltable",
		Short: "typed spreadsheet tables described in yaml",
	}
	setupCmd = &cobra.Command{
		Use:         "setup",
		Short:       "write the default configuration to the config directory",
		RunE:        cmdSetup,
		Annotations: map[string]string{"type": "setup"},
	}

	runCfg struct {
		Log logger.Config
	}
	confDir string
)

func init() {
	defaultConfDir := cfgstruct.DefaultConfDir("xltable")
	rootCmd.PersistentFlags().StringVar(&confDir, "config-dir", defaultConfDir, "main directory for xltable configuration")
	rootCmd.AddCommand(setupCmd, stylesCmd, checkCmd, templateCmd, exportCmd, serveCmd)
	for _, cmd := range []*cobra.Command{setupCmd, stylesCmd, checkCmd, templateCmd, exportCmd, serveCmd} {
		process.Bind(cmd, &runCfg, cfgstruct.ConfDir(defaultConfDir))
	}
}

func main() {
	process.ExecWithCustomOptions(rootCmd, process.ExecOptions{
		LoadConfig: process.LoadConfig,
		LoggerFactory: func(l *zap.Logger) *zap.Logger {
			log, err := logger.New(runCfg.Log)
			if err != nil {
				_, _ = fmt.Fprintln(os.Stderr, "invalid log configuration:", err)
				return l
			}
			return log
		},
	})
}

func cmdSetup(cmd *cobra.Command, args []string) error {
	path := filepath.Join(os.ExpandEnv(confDir), process.DefaultCfgFilename)
	if err := process.SaveConfig(exportCmd, path, "query", "schema"); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "configuration written to", path)
	return nil
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return schema.LoadYAMLFile(path)
}
