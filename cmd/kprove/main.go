// Package main implements the kprove CLI: thin cobra wiring over
// pkg/prover and pkg/cfg. Argument semantics stay minimal — the real work
// happens in the library packages; commands here load config, dial the
// backend, and print results.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/kprove/internal/config"
	"github.com/gitrdm/kprove/internal/log"
)

var (
	configPath string
	debugLog   bool

	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kprove",
	Short: "Drive symbolic-execution proofs against a matching-logic backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := log.New(debugLog)
		if err != nil {
			return fmt.Errorf("kprove: init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML settings file (optional)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug-level logging")

	rootCmd.AddCommand(proveCmd, showCmd, viewCmd, listCmd, cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(3)
	}
}
