package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	kcfg "github.com/gitrdm/kprove/pkg/cfg"
)

var viewCmd = &cobra.Command{
	Use:   "view proof-id",
	Short: "Render a saved proof and re-render it whenever its file changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saveDir := cfg.SaveDirectory
		if flagSaveDirectory != "" {
			saveDir = flagSaveDirectory
		}
		path := proofPath(saveDir, args[0])

		render := func() error {
			g, err := kcfg.Load(path)
			if err != nil {
				return usageError(fmt.Errorf("kprove: load proof %q: %w", args[0], err))
			}
			fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
			fmt.Fprint(cmd.OutOrStdout(), g.Render())
			return nil
		}
		if err := render(); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("kprove: start file watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("kprove: watch %s: %w", path, err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := render(); err != nil {
						logger.Warnw("view: re-render failed", "error", err)
					}
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warnw("view: watcher error", "error", werr)
			case <-sigCh:
				return nil
			}
		}
	},
}

func init() {
	viewCmd.Flags().StringVar(&flagSaveDirectory, "save-directory", "", "override config save-directory")
}
