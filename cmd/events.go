package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/josephlewis42/minish/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Explore the execution event log.",
}

// readEventLog calls handler for every entry in the configured event log.
func readEventLog(cmd *cobra.Command, handler func(le *logger.LogEntry)) error {
	cfg, err := loadConfig(log.New(cmd.ErrOrStderr(), "[minish] ", 0))
	if err != nil {
		return err
	}

	fd, err := cfg.ReadEventLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func printYAML(w io.Writer, value interface{}) error {
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}

	fmt.Fprint(w, string(out))
	return nil
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()
		if err := readEventLog(cmd, report.Update); err != nil {
			return err
		}

		return printYAML(cmd.OutOrStdout(), report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show the commands run in each session.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.SessionReport
		if err := readEventLog(cmd, report.Update); err != nil {
			return err
		}

		return printYAML(cmd.OutOrStdout(), &report)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
