// Package cli implements the canexec command-line interface using Cobra.
package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/majorcontext/canexec/internal/allowlist"
	"github.com/majorcontext/canexec/internal/config"
	"github.com/majorcontext/canexec/internal/engine"
	"github.com/majorcontext/canexec/internal/execsession"
	"github.com/majorcontext/canexec/internal/log"
	"github.com/majorcontext/canexec/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
	host    string

	globalCfg = config.DefaultGlobalConfig()
)

// engineClient is everything the commands need from one engine connection.
type engineClient interface {
	execsession.Engine
	execsession.ResizeEngine
	engine.Versioner
	Close() error
}

// connectEngine opens the connection. Tests replace it.
var connectEngine = func(host string) (engineClient, error) {
	cli, err := engine.Connect(host)
	if err != nil {
		return nil, err
	}
	return cli, nil
}

// connect opens the single engine connection for this invocation.
// --host wins over the configured host.
func connect() (engineClient, error) {
	h := host
	if h == "" {
		h = globalCfg.Engine.Host
	}
	log.Debug("connecting to engine", "host", h)
	return connectEngine(h)
}

var rootCmd = &cobra.Command{
	Use:   "canexec",
	Short: "Run allow-listed CAN tools inside a container",
	Long: `canexec runs an allow-listed command (the can-utils tools and whoami)
inside a running container, prints the exec session's inspection before and
after its first output, and resizes the terminal of existing exec sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadGlobal()
		globalCfg = cfg

		if err := log.Init(log.Options{
			Level:         log.ResolveLevel(verbose, os.Getenv(log.LevelEnv)),
			JSONFormat:    jsonOut,
			DebugDir:      filepath.Join(config.GlobalConfigDir(), "debug"),
			RetentionDays: cfg.Debug.RetentionDays,
			Stderr:        cmd.ErrOrStderr(),
		}); err != nil {
			// Non-fatal: the default logger still works.
			ui.Warn("failed to initialize debug logging: " + err.Error())
		}
		return nil
	},
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		reportError(err)
	}
	return err
}

// reportError prints err for the operator. A rejected command is printed
// as-is; anything else gets the Error: prefix.
func reportError(err error) {
	if errors.Is(err, allowlist.ErrInvalidCommand) {
		ui.Info(err.Error())
		return
	}
	ui.Error(err.Error())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (env: "+log.LevelEnv+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON logs and single-line JSON inspections")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "engine host URL (env: CANEXEC_ENGINE_HOST, default "+engine.DefaultHost+")")
}
