package cmd

import (
	"io"
	"log"

	"github.com/josephlewis42/minish/core/config"
	"github.com/josephlewis42/minish/core/logger"
	"github.com/josephlewis42/minish/core/proc"
	"github.com/josephlewis42/minish/core/shell"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// newShell wires a shell to the configured launcher, job policy and event log.
// The returned closer must be called once the shell is done.
func newShell(cmd *cobra.Command, cfg *config.Configuration, appLog *log.Logger) (*shell.Shell, io.Closer, error) {
	var toClose listCloser

	launcher, err := proc.NewLauncher(cfg.Launcher, afero.NewOsFs())
	if err != nil {
		return nil, nil, err
	}

	events := logger.NewNopLogger()
	logFd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	if logFd != nil {
		toClose = append(toClose, logFd)
		events = logger.NewJsonLinesLogRecorder(logFd)
		appLog.Printf("Recording events to: %s", logFd.Name())
	}
	session := events.NewSession()

	jobs := proc.NewJobs(proc.Policy(cfg.BackgroundPolicy), appLog, session)
	runner := proc.NewRunner(launcher, jobs,
		proc.WithOutput(cmd.OutOrStdout()),
		proc.WithLogger(appLog),
		proc.WithEventRecorder(session),
	)

	sh := shell.NewShell(cfg, runner,
		shell.WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		shell.WithLogger(appLog),
	)
	return sh, toClose, nil
}

// shellCmd runs the interactive shell.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive shell.",
	Args:  cobra.NoArgs,
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

		exitCode = sh.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
