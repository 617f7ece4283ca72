package main

import (
	"fmt"

	"github.com/spf13/cobra"

	kcfg "github.com/gitrdm/kprove/pkg/cfg"
)

var showCmd = &cobra.Command{
	Use:   "show proof-id",
	Short: "Render a saved proof's CFG as an indented tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saveDir := cfg.SaveDirectory
		if flagSaveDirectory != "" {
			saveDir = flagSaveDirectory
		}
		path := proofPath(saveDir, args[0])
		g, err := kcfg.Load(path)
		if err != nil {
			return usageError(fmt.Errorf("kprove: load proof %q: %w", args[0], err))
		}
		fmt.Fprint(cmd.OutOrStdout(), g.Render())
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&flagSaveDirectory, "save-directory", "", "override config save-directory")
}
