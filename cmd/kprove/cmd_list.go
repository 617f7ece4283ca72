package main

import (
	"fmt"

	"github.com/spf13/cobra"

	kcfg "github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/prover"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved proofs under the save directory and their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		saveDir := cfg.SaveDirectory
		if flagSaveDirectory != "" {
			saveDir = flagSaveDirectory
		}
		entries, err := loadManifest(saveDir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			g, err := kcfg.Load(proofPath(saveDir, e.ID))
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: error loading proof: %v\n", e.ID, err)
				continue
			}
			status := prover.NewProof(e.ID, g).Status()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", e.ID, status)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagSaveDirectory, "save-directory", "", "override config save-directory")
}
