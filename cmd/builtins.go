package cmd

import (
	"github.com/josephlewis42/minish/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the shell runs itself
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell.WriteBuiltins(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
