package process

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/opdss/xltable/cfgstruct"
	"github.com/opdss/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"github.com/zeebo/structs"
	"go.uber.org/zap"
)

// DefaultCfgFilename is the default filename used for storing a configuration.
const DefaultCfgFilename = "config.yaml"

var (
	commandMtx sync.Mutex
	contexts   = map[*cobra.Command]context.Context{}
	cancels    = map[*cobra.Command]context.CancelFunc{}
	configs    = map[*cobra.Command][]interface{}{}
	vipers     = map[*cobra.Command]*viper.Viper{}
)

// Bind sets flags on a command that match the configuration struct
// 'config'. It ensures that the config has all of the values loaded into it
// when the command runs.
func Bind(cmd *cobra.Command, config interface{}, opts ...cfgstruct.BindOpt) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	cfgstruct.Bind(cmd.Flags(), config, opts...)
	configs[cmd] = append(configs[cmd], config)
}

// Exec runs a Cobra command. If a "config-dir" flag is defined it will be parsed
// and loaded using viper.
func Exec(cmd *cobra.Command) {
	ExecWithCustomConfig(cmd, LoadConfig)
}

// ExecWithCustomConfig runs a Cobra command. Custom configuration can be loaded.
func ExecWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) {
	ExecWithCustomConfigAndLogger(cmd, loadConfig, nil)
}

// ExecWithCustomConfigAndLogger runs a Cobra command with a custom logger. Custom configuration can be loaded.
func ExecWithCustomConfigAndLogger(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error, loggerFactory func(*zap.Logger) *zap.Logger) {
	ExecWithCustomOptions(cmd, ExecOptions{
		LoadConfig:    loadConfig,
		LoggerFactory: loggerFactory,
	})
}

// ExecOptions contains options for ExecWithCustomOptions.
type ExecOptions struct {
	FailOnValueError bool

	LoadConfig    func(cmd *cobra.Command, vip *viper.Viper) error
	LoggerFactory func(*zap.Logger) *zap.Logger
}

// ExecWithCustomOptions runs a Cobra command with custom options.
func ExecWithCustomOptions(cmd *cobra.Command, opts ExecOptions) {
	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "output the version's build information, if any",
		RunE:        cmdVersion,
		Annotations: map[string]string{"type": "setup"}})

	exe, err := os.Executable()
	if err == nil && cmd.Use == "" {
		cmd.Use = exe
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	cleanup(cmd, &opts)
	err = cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}

// Ctx returns the appropriate context.Context for ExecuteWithConfig commands.
func Ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	ctx := contexts[cmd]
	if ctx == nil {
		ctx = context.Background()
		contexts[cmd] = ctx
	}

	cancel := cancels[cmd]
	if cancel == nil {
		ctx, cancel = context.WithCancel(ctx)
		contexts[cmd] = ctx
		cancels[cmd] = cancel

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-c
			zap.L().Info("Got a signal from the OS", zap.Stringer("signal", sig))
			signal.Stop(c)
			cancel()
		}()
	}

	return ctx, cancel
}

// Viper returns the appropriate *viper.Viper for the command, creating if necessary.
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	return ViperWithCustomConfig(cmd, LoadConfig)
}

// ViperWithCustomConfig returns the appropriate *viper.Viper for the command, creating if necessary. Custom
// config load logic can be defined with "loadConfig" parameter.
func ViperWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) (*viper.Viper, error) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	if vip := vipers[cmd]; vip != nil {
		return vip, nil
	}

	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	prefix := os.Getenv("ENV_PREFIX")
	if prefix == "" {
		prefix = "xltable"
	}

	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	err := loadConfig(cmd, vip)
	if err != nil {
		return nil, err
	}

	vipers[cmd] = vip
	return vip, nil
}

// LoadConfig loads configuration into *viper.Viper from file specified with "config-dir" flag.
func LoadConfig(cmd *cobra.Command, vip *viper.Viper) error {
	cfgFlag := cmd.Flags().Lookup("config-dir")
	if cfgFlag != nil && cfgFlag.Value.String() != "" {
		path := filepath.Join(os.ExpandEnv(cfgFlag.Value.String()), DefaultCfgFilename)
		exists, err := fileExists(path)
		if err != nil {
			return err
		}
		if exists {
			setupCommand := cmd.Annotations["type"] == "setup"
			vip.SetConfigFile(path)
			if err := vip.ReadInConfig(); err != nil && !setupCommand {
				return err
			}
		}
	}
	return nil
}

func cleanup(cmd *cobra.Command, opts *ExecOptions) {
	for _, ccmd := range cmd.Commands() {
		cleanup(ccmd, opts)
	}
	if cmd.Run != nil {
		panic("Please use cobra's RunE instead of Run")
	}
	internalRun := cmd.RunE
	if internalRun == nil {
		return
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		ctx, cancel := Ctx(cmd)
		defer cancel()
		vip, err := ViperWithCustomConfig(cmd, opts.LoadConfig)
		if err != nil {
			return err
		}

		commandMtx.Lock()
		configValues := configs[cmd]
		commandMtx.Unlock()
		keys := decodeConfigs(cmd, vip, configValues)

		logger := zap.L()
		if opts.LoggerFactory != nil {
			logger = opts.LoggerFactory(logger)
		}
		if vip.ConfigFileUsed() != "" {
			path, err := filepath.Abs(vip.ConfigFileUsed())
			if err != nil {
				path = vip.ConfigFileUsed()
				logger.Debug("unable to resolve path", zap.Error(err))
			}
			logger.Info("Configuration loaded", zap.String("Location", path))
		}

		defer func() { _ = logger.Sync() }()
		defer zap.ReplaceGlobals(logger)()
		defer zap.RedirectStdLog(logger)()

		if err = keys.report(logger, cmd.Annotations["type"] != "helper", opts.FailOnValueError); err != nil {
			return err
		}

		commandMtx.Lock()
		contexts[cmd] = ctx
		commandMtx.Unlock()
		defer func() {
			commandMtx.Lock()
			delete(contexts, cmd)
			delete(cancels, cmd)
			commandMtx.Unlock()
		}()

		if err = internalRun(cmd, args); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err.Error())
			logger.Fatal("Unrecoverable error", zap.Error(err))
			_ = logger.Sync()
			os.Exit(1)
		}
		return nil
	}
}

type keySet map[string]struct{}

func (k keySet) add(key string) { k[key] = struct{}{} }

func (k keySet) has(key string) bool {
	_, ok := k[key]
	return ok
}

// configKeys 配置文件中的键按解码结果分类
type configKeys struct {
	used    keySet
	missing keySet
	broken  keySet
}

// decodeConfigs 把配置解码到绑定的结构体，结构体中没有的键再尝试设置到同名的 flag
func decodeConfigs(cmd *cobra.Command, vip *viper.Viper, configValues []interface{}) configKeys {
	keys := configKeys{used: keySet{}, missing: keySet{}, broken: keySet{}}
	allSettings := vip.AllSettings()
	for _, config := range configValues {
		res := structs.Decode(allSettings, config)
		for key := range res.Used {
			keys.used.add(key)
		}
		for key := range res.Missing {
			keys.missing.add(key)
		}
		for key := range res.Broken {
			keys.broken.add(key)
		}
	}

	for key := range keys.missing {
		var err error
		if f := cmd.Flags().Lookup(key); f != nil {
			val := vip.GetString(key)
			err = f.Value.Set(val)
			f.Changed = val != f.DefValue
		} else if f := flag.Lookup(key); f != nil {
			err = f.Value.Set(vip.GetString(key))
		} else {
			continue
		}
		if err != nil {
			keys.broken.add(key)
		} else {
			keys.used.add(key)
		}
	}
	for key := range keys.missing {
		if keys.used.has(key) {
			delete(keys.missing, key)
		}
	}
	return keys
}

func (k configKeys) report(logger *zap.Logger, missing, failOnValueError bool) error {
	if missing {
		for key := range k.missing {
			logger.Info("Invalid configuration file key", zap.String("Key", key))
		}
	}
	for key := range k.broken {
		if failOnValueError {
			return errs.New("Invalid configuration file value for key: %s", key)
		}
		logger.Info("Invalid configuration file value for key", zap.String("Key", key))
	}
	return nil
}

func cmdVersion(cmd *cobra.Command, args []string) (err error) {
	_, err = fmt.Fprintln(cmd.OutOrStdout(), version.Build)
	return err
}
