package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/majorcontext/canexec/internal/engine"
	"github.com/majorcontext/canexec/internal/execsession"
	"github.com/majorcontext/canexec/internal/log"
	"github.com/majorcontext/canexec/internal/term"
	"github.com/spf13/cobra"
)

var resizeCmd = &cobra.Command{
	Use:   "resize <exec> [<width> <height>]",
	Short: "Resize the TTY of an existing exec session",
	Long: `Resize the pseudo-terminal of an existing exec session.

Width and height are sent to the engine as given. If both are omitted, the
size of the current terminal is used.`,
	Example: `  canexec resize 3f1c9e 120 40
  canexec resize 3f1c9e`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts 1 or 3 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: runResize,
}

func init() {
	rootCmd.AddCommand(resizeCmd)
}

// terminalSize is swapped out in tests.
var terminalSize = func() (uint, uint, error) {
	return term.Size(os.Stdout)
}

func runResize(cmd *cobra.Command, args []string) error {
	execID := args[0]

	width, height, err := resizeDimensions(args[1:])
	if err != nil {
		return err
	}

	cli, err := connect()
	if err != nil {
		return err
	}
	defer cli.Close()

	if err := execsession.NewResizer(cli).Resize(cmd.Context(), execID, width, height); err != nil {
		log.Debug("resize rejected", "exec_id", execID, "kind", engine.Kind(err))
		return err
	}
	return nil
}

// resizeDimensions parses [width height], or reads the terminal size when
// dims is empty.
func resizeDimensions(dims []string) (width, height uint, err error) {
	if len(dims) == 0 {
		width, height, err = terminalSize()
		if err != nil {
			return 0, 0, fmt.Errorf("width and height omitted and no terminal size available: %w", err)
		}
		return width, height, nil
	}

	w, err := strconv.ParseUint(dims[0], 10, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q: %w", dims[0], err)
	}
	h, err := strconv.ParseUint(dims[1], 10, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q: %w", dims[1], err)
	}
	return uint(w), uint(h), nil
}
