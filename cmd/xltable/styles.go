package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/opdss/xltable/process"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cobra"
)

var (
	stylesCmd = &cobra.Command{
		Use:   "styles",
		Short: "resolve the style cascade and list every named style",
		RunE:  cmdStyles,
	}
	stylesCfg struct {
		Schema string `help:"YAML 表格定义，为空时列出内置样式" default:""`
	}
)

func init() {
	process.Bind(stylesCmd, &stylesCfg)
}

func cmdStyles(cmd *cobra.Command, args []string) (err error) {
	var set *style.Set
	if stylesCfg.Schema == "" {
		set, err = style.NewDefaultSet()
	} else {
		sch, lerr := loadSchema(stylesCfg.Schema)
		if lerr != nil {
			return lerr
		}
		set, err = sch.Styles()
	}
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, name := range set.Names() {
		f, err := set.Format(name)
		if err != nil {
			return err
		}
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		marker := ""
		if name == set.Default() {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\n", name, marker, data)
	}
	_, _ = fmt.Fprintf(w, "\n%d styles, %d distinct formats\n", set.Len(), set.Distinct())
	return w.Flush()
}
