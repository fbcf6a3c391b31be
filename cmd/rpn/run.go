package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rpn/internal/driver"
	"rpn/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file|-]",
	Short: "Evaluate a script line by line",
	Long: `Evaluate a script file (or stdin when the argument is "-" or missing)
one line at a time, exactly as the interactive session would.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	addEvalFlags(runCmd)
	runCmd.Flags().Bool("vm-trace", false, "print every executed instruction to stderr")
	runCmd.Flags().String("dump-state", "", "write the final machine state to stdout (json|yaml|msgpack)")
}

func runScript(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	vmTrace, err := cmd.Flags().GetBool("vm-trace")
	if err != nil {
		return fmt.Errorf("failed to get vm-trace flag: %w", err)
	}
	dumpFormat, err := cmd.Flags().GetString("dump-state")
	if err != nil {
		return fmt.Errorf("failed to get dump-state flag: %w", err)
	}
	dumpFormat = strings.ToLower(dumpFormat)
	switch dumpFormat {
	case "", "json", "yaml", "msgpack":
	default:
		return fmt.Errorf("unsupported --dump-state format %q (expected json|yaml|msgpack)", dumpFormat)
	}

	in, closeIn, err := openInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer closeIn()

	opts, err := sessionOptions(cmd, cmd.OutOrStdout(), cmd.ErrOrStderr(), useColor(os.Stderr))
	if err != nil {
		return err
	}
	if vmTrace {
		opts.VMTrace = vm.NewTracer(cmd.ErrOrStderr())
	}
	return evalScript(cmd.Context(), in, opts, dumpFormat, cmd.OutOrStdout())
}

// evalScript runs r in a fresh session and optionally dumps the final state.
func evalScript(ctx context.Context, r io.Reader, opts driver.SessionOptions, dumpFormat string, out io.Writer) error {
	s, err := driver.NewSession(ctx, opts)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := s.Run(ctx, r); err != nil {
		return err
	}
	if dumpFormat == "" {
		return nil
	}
	if err := vm.WriteSnapshot(out, s.M.Snapshot(), dumpFormat); err != nil {
		return fmt.Errorf("dump state: %w", err)
	}
	return nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	// #nosec G304 -- path is provided by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
