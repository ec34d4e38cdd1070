package commands

import "github.com/spf13/cobra"

func (c *CLI) newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, _ := cmd.Flags().GetStringSlice("dir")
			return c.app.Classify(cmd.Context(), args[0], options(cmd, dirs))
		},
	}
	cmd.Flags().StringSliceP("dir", "d", nil, "Workspace folder to search (repeatable)")
	return cmd
}
