package cli

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/majorcontext/canexec/internal/engine"
	"github.com/majorcontext/canexec/internal/log"
	"github.com/majorcontext/canexec/internal/ui"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Version returns the build version string.
func Version() string {
	return version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of canexec and the engine it talks to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", ui.Bold("canexec"), version)
		if commit != "none" {
			fmt.Fprintf(out, "  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Fprintf(out, "  built:  %s\n", date)
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
		}

		fmt.Fprintf(out, "  engine: %s\n", describeEngine(cmd.Context()))
	},
}

// describeEngine names the engine, or says why it could not.
func describeEngine(ctx context.Context) string {
	cli, err := connect()
	if err != nil {
		log.Debug("engine connection failed", "error", err)
		return ui.Dim("unavailable")
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	info, err := engine.Describe(ctx, cli)
	if err != nil {
		log.Debug("engine version query failed", "error", err, "kind", engine.Kind(err))
		return ui.Dim("unavailable")
	}
	return fmt.Sprintf("%s %s (API %s)", info.Platform, info.Version, info.APIVersion)
}
