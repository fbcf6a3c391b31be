package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"rpn/internal/driver"
	"rpn/internal/version"
	"rpn/internal/vm"
)

const replHelp = `Enter RPN instructions, one line at a time.
  :stack        print the stack
  :names        list the name table
  :registers    list non-zero registers
  :help         show this help
  :quit         leave the session (same as q or Ctrl+D)
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long:  `Start an interactive session with line editing and history. Reads plain lines when stdin is not a terminal.`,
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func init() {
	addEvalFlags(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	opts, err := sessionOptions(cmd, cmd.OutOrStdout(), cmd.ErrOrStderr(), useColor(os.Stderr))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := driver.NewSession(ctx, opts)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if !stdinIsTerminal() {
		return s.Run(ctx, cmd.InOrStdin())
	}
	return interactiveLoop(ctx, s, cmd.OutOrStdout())
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func interactiveLoop(ctx context.Context, s *driver.Session, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := appConfig.REPL.HistoryFile
	useHistory := appConfig.REPL.History && histPath != ""
	if useHistory {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Fprintf(out, "rpn %s, type :help for commands\n", version.Current().Version)
	for {
		line, err := ln.Prompt(appConfig.REPL.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				break
			}
			return fmt.Errorf("read line: %w", err)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(trimmed, ":") {
			if handleReplCommand(s, out, trimmed) {
				break
			}
			continue
		}
		if s.EvalLine(ctx, line).Halted {
			break
		}
	}

	if useHistory {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// handleReplCommand runs a ":"-command and reports whether the session should end.
func handleReplCommand(s *driver.Session, out io.Writer, line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(out, replHelp)
	case ":stack":
		fmt.Fprintln(out, vm.FormatStack(s.M.Stack()))
	case ":names":
		for _, name := range s.M.Names() {
			v, _ := s.M.Lookup(name)
			fmt.Fprintf(out, "(%s) = %s\n", name, v)
		}
	case ":registers":
		for i := range vm.RegisterCount {
			if v, ok := s.M.Register(i); ok && v != 0 {
				fmt.Fprintf(out, "%3d = %s\n", i, vm.FormatNumber(v))
			}
		}
	default:
		fmt.Fprintf(out, "unknown command %s, type :help for help\n", fields[0])
	}
	return false
}
