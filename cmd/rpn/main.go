package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rpn/internal/stdlib"
	"rpn/internal/trace"
	"rpn/internal/version"
)

// exitBootstrap is returned when the bundled library fails to load (EX_SOFTWARE).
const exitBootstrap = 70

var rootCmd = &cobra.Command{
	Use:   "rpn",
	Short: "Stack calculator with curried and composed functions",
	Long: `rpn evaluates reverse Polish notation one line at a time.
Without a subcommand it starts an interactive session.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareCommand,
	RunE:              runREPL,
}

var (
	traceCleanup = func() {}
	profCleanup  = func() {}
	commandSpan  *trace.Span
)

// main registers subcommands and global flags, then executes the root command.
// Bootstrap failures exit with status 70, every other error with 1.
func main() {
	defer dumpTraceOnPanic()

	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	addEvalFlags(rootCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to rpn.toml (default: nearest rpn.toml above the working directory)")
	pf.String("color", "", "colorize output (auto|on|off), overrides [output].color")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|line|instr)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "ring buffer capacity for ring and both modes")
	pf.Duration("trace-heartbeat", 0, "report session progress at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	// PostRun не вызывается при ошибке, поэтому закрываем трассировку здесь
	finishCommand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpn: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func prepareCommand(cmd *cobra.Command, _ []string) error {
	if err := loadAppConfig(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profCleanup = stopProf

	ctx := cmd.Context()
	commandSpan = trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, cmd.CommandPath(), 0)
	cmd.SetContext(trace.WithParentSpan(ctx, commandSpan))
	return nil
}

func finishCommand() {
	commandSpan.End("")
	profCleanup()
	traceCleanup()
}

func exitCodeFor(err error) int {
	var bootErr *stdlib.BootstrapError
	if errors.As(err, &bootErr) {
		return exitBootstrap
	}
	return 1
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
