package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type testConfig struct {
	Sheet string        `help:"工作表" default:"Members"`
	Wait  time.Duration `help:"等待" default:"5s"`
	Store struct {
		Root string `help:"根目录" default:"/tmp/exports"`
		Zip  bool   `help:"压缩" default:"true"`
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	var cfg testConfig
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config-dir", dir, "")
	Bind(cmd, &cfg)

	outfile := filepath.Join(dir, DefaultCfgFilename)
	require.NoError(t, SaveConfig(cmd, outfile))

	data, err := os.ReadFile(outfile)
	require.NoError(t, err)
	var saved map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "Members", saved["sheet"])
	assert.Equal(t, "5s", saved["wait"])
	assert.NotContains(t, saved, "config-dir")
	store, ok := saved["store"].(map[interface{}]interface{})
	require.True(t, ok)
	assert.Equal(t, true, store["zip"])

	vip := viper.New()
	require.NoError(t, LoadConfig(cmd, vip))
	assert.Equal(t, "/tmp/exports", vip.GetString("store.root"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config-dir", t.TempDir(), "")
	vip := viper.New()
	require.NoError(t, LoadConfig(cmd, vip))
	assert.Empty(t, vip.ConfigFileUsed())
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a.yaml")
	require.NoError(t, atomicWriteFile(out, []byte("a: 1\n"), 0o600))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
