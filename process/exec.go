package process

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zeebo/errs"
	"gopkg.in/yaml.v2"
)

func init() {
	cobra.MousetrapHelpText = "This is a command line tool.\n\n" +
		"This needs to be run from a Command Prompt.\n"

	// Figure out the executable name.
	exe, err := os.Executable()
	if err == nil {
		cobra.MousetrapHelpText += fmt.Sprintf(
			"Try running \"%s help\" for more information\n", exe)
	}
}

// fileExists checks whether file exists, handle error correctly if it doesn't.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errs.New("failed to check for file existence: %v", err)
	}
	return true, nil
}

// SaveConfig writes the current values of the command's flags to outfile as
// yaml. Dotted flag names become nested maps; hidden flags and the flags
// listed in skip are left out.
func SaveConfig(cmd *cobra.Command, outfile string, skip ...string) error {
	skipped := map[string]bool{"config-dir": true, "help": true}
	for _, name := range skip {
		skipped[name] = true
	}
	var names []string
	values := map[string]interface{}{}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || skipped[f.Name] {
			return
		}
		names = append(names, f.Name)
		values[f.Name] = flagValue(f)
	})
	sort.Strings(names)

	root := yaml.MapSlice{}
	for _, name := range names {
		root = setNested(root, strings.Split(name, "."), values[name])
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return errs.Wrap(err)
	}
	if err = os.MkdirAll(filepath.Dir(outfile), 0o755); err != nil {
		return errs.Wrap(err)
	}
	return atomicWriteFile(outfile, data, 0o644)
}

// flagValue keeps the yaml type of numbers, booleans and lists
func flagValue(f *pflag.Flag) interface{} {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice()
	}
	switch f.Value.Type() {
	case "bool":
		return cast.ToBool(f.Value.String())
	case "int", "int64", "uint", "uint64":
		return cast.ToInt64(f.Value.String())
	case "float64":
		return cast.ToFloat64(f.Value.String())
	}
	return f.Value.String()
}

func setNested(m yaml.MapSlice, path []string, value interface{}) yaml.MapSlice {
	for i := range m {
		if m[i].Key != path[0] {
			continue
		}
		if len(path) > 1 {
			child, _ := m[i].Value.(yaml.MapSlice)
			m[i].Value = setNested(child, path[1:], value)
		}
		return m
	}
	if len(path) == 1 {
		return append(m, yaml.MapItem{Key: path[0], Value: value})
	}
	return append(m, yaml.MapItem{Key: path[0], Value: setNested(nil, path[1:], value)})
}

// atomicWriteFile is a helper to atomically write the data to the outfile.
func atomicWriteFile(outfile string, data []byte, mode os.FileMode) (err error) {
	// TODO: provide better atomicity guarantees, like fsyncing the parent
	// directory and, on windows, using MoveFileEx with MOVEFILE_WRITE_THROUGH.

	fh, err := os.CreateTemp(filepath.Dir(outfile), filepath.Base(outfile))
	if err != nil {
		return errs.Wrap(err)
	}
	needsClose, needsRemove := true, true

	defer func() {
		if needsClose {
			err = errs.Combine(err, errs.Wrap(fh.Close()))
		}
		if needsRemove {
			err = errs.Combine(err, errs.Wrap(os.Remove(fh.Name())))
		}
	}()

	if _, err := fh.Write(data); err != nil {
		return errs.Wrap(err)
	}
	if err := fh.Chmod(mode); err != nil {
		return errs.Wrap(err)
	}

	needsClose = false
	if err := fh.Close(); err != nil {
		return errs.Wrap(err)
	}

	if err := os.Rename(fh.Name(), outfile); err != nil {
		return errs.Wrap(err)
	}
	needsRemove = false

	return nil
}
