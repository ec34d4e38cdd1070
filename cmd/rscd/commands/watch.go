package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.trai.ch/rscd/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Keep classifications current as files change",
		Long: "Classifies every component, then follows file system changes and prints " +
			"every decoration that changes. Send SIGHUP to reread the configuration and rescan.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reload := make(chan os.Signal, 1)
			signal.Notify(reload, syscall.SIGHUP)
			defer signal.Stop(reload)

			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Options: options(cmd, args),
				Reload:  reload,
			})
		},
	}
}
