package cli

import (
	"time"

	"github.com/majorcontext/canexec/internal/allowlist"
	"github.com/majorcontext/canexec/internal/engine"
	"github.com/majorcontext/canexec/internal/execsession"
	"github.com/majorcontext/canexec/internal/log"
	"github.com/spf13/cobra"
)

var inspectTimeout time.Duration

var inspectCmd = &cobra.Command{
	Use:   "inspect <container> <cmd> [args...]",
	Short: "Run a command in a container and inspect the exec session",
	Long: `Run an allow-listed command in a running container.

Prints the exec session's inspection before it starts, the first chunk of
output it produces, and a second inspection. The command is not waited for
and keeps running in the container afterwards.

Flags are only parsed before <container>; everything after is passed to the
command unchanged.`,
	Example: `  canexec inspect can-utils whoami
  canexec inspect can-utils candump -n 1 can0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 0, "give up waiting for first output after this long (0 waits forever)")
	inspectCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	containerID, command := args[0], args[1:]

	// Reject before touching the engine.
	if err := allowlist.Validate(command); err != nil {
		return err
	}

	cli, err := connect()
	if err != nil {
		return err
	}
	defer cli.Close()

	timeout := globalCfg.Exec.FirstChunkTimeout
	if cmd.Flags().Changed("timeout") {
		timeout = inspectTimeout
	}

	m := execsession.NewManager(cli, execsession.Options{
		Stdout:            cmd.OutOrStdout(),
		Stderr:            cmd.ErrOrStderr(),
		FirstChunkTimeout: timeout,
		Compact:           jsonOut,
	})
	if _, err := m.RunAndObserve(cmd.Context(), containerID, command); err != nil {
		log.Debug("inspect failed", "container", containerID, "kind", engine.Kind(err))
		return err
	}
	return nil
}
