package commands

import "github.com/spf13/cobra"

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dirs...]",
		Short: "Classify every component once",
		Long: "Searches the workspace folders for Next.js projects and prints whether each " +
			"file in their src directory is a client or a server component.\n" +
			"Positional directories replace the configured workspace folders.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Scan(cmd.Context(), options(cmd, args))
		},
	}
}
