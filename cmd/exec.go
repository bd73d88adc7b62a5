package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// execCmd runs lines without prompting.
var execCmd = &cobra.Command{
	Use:   "exec LINE...",
	Short: "Run each argument as a line of shell input.",
	Long: `Run each argument as a line of shell input, in order, as if it was typed
at the prompt. Exits with the status of the last line.`,
	Example: `  minish exec 'ls -la | wc -l' 'sleep 1 &'`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLog := log.New(cmd.ErrOrStderr(), "[minish] ", 0)
		cfg, err := loadConfig(appLog)
		if err != nil {
			return err
		}

		sh, closer, err := newShell(cmd, cfg, appLog)
		if err != nil {
			return err
		}
		defer closer.Close()

		for _, line := range args {
			if !sh.RunLine(line) {
				break
			}
		}

		if err := sh.Close(); err != nil {
			appLog.Println(err)
		}

		exitCode = sh.Status()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
