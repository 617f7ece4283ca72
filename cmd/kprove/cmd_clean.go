package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagCleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean [proof-id...]",
	Short: "Remove saved proof state from the save directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		saveDir := cfg.SaveDirectory
		if flagSaveDirectory != "" {
			saveDir = flagSaveDirectory
		}
		if !flagCleanAll && len(args) == 0 {
			return usageError(fmt.Errorf("kprove: clean requires proof ids or --all"))
		}

		entries, err := loadManifest(saveDir)
		if err != nil {
			return err
		}
		targets := args
		if flagCleanAll {
			targets = make([]string, 0, len(entries))
			for _, e := range entries {
				targets = append(targets, e.ID)
			}
		}

		for _, id := range targets {
			path := proofPath(saveDir, id)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("kprove: remove proof %q: %w", id, err)
			}
			if err := removeManifestEntry(saveDir, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&flagCleanAll, "all", false, "remove every saved proof")
	cleanCmd.Flags().StringVar(&flagSaveDirectory, "save-directory", "", "override config save-directory")
}
