package cmd

import (
	"log"
	"os"

	"github.com/josephlewis42/minish/core/config"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	return config.OpenOrDefault(cfgPath, logger)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minish",
	Short: "A minimal interactive shell",
	Long: `A minimal shell that runs commands, two-stage pipelines and
background processes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shellCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

// exitCode is the status of the last line run by the shell.
var exitCode int

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
