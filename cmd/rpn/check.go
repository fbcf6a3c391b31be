package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rpn/internal/diag"
	"rpn/internal/diagfmt"
	"rpn/internal/driver"
	"rpn/internal/observ"
	"rpn/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.rpn|directory>...",
	Short: "Parse scripts and report diagnostics without running them",
	Long: `Check parses every line of the given scripts (or all *.rpn files below the
given directories) in parallel and reports lexical and syntax problems.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("warnings-as-errors", false, "fail on warnings too")
	checkCmd.Flags().Bool("timings", false, "print phase timings to stderr")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	timer := observ.NewTimer()
	if showTimings {
		defer func() { fmt.Fprint(cmd.ErrOrStderr(), timer.Summary()) }()
	}

	phase := timer.Begin("expand")
	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("failed to resolve inputs: %w", err)
	}
	timer.End(phase, fmt.Sprintf("%d files", len(paths)))
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", driver.SourceExt)
	}

	opts := driver.CheckOptions{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	var (
		fileSet *source.FileSet
		results []driver.CheckResult
	)
	phase = timer.Begin("check")
	// JSON идёт в stdout, прогресс там бы помешал
	if format == "pretty" && shouldUseTUI(mode, os.Stdout) {
		fileSet, results, err = runCheckWithUI(cmd.Context(), "checking scripts", paths, opts)
	} else {
		fileSet, results, err = driver.CheckFiles(cmd.Context(), paths, opts)
	}
	timer.End(phase, "")
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	phase = timer.Begin("report")

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	combined := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		combined.Merge(r.Bag)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := diagfmt.JSON(out, combined, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		diagfmt.Pretty(out, combined, fileSet, diagfmt.PrettyOpts{
			Color:    useColor(os.Stdout),
			PathMode: pathMode,
			Context:  true,
		})
		errs, warns := countSeverities(combined)
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s): %d error(s), %d warning(s)\n", len(results), errs, warns)
	}

	timer.End(phase, "")

	if failed := failedFiles(results, warningsAsErrors); failed > 0 {
		return fmt.Errorf("%d file(s) with problems", failed)
	}
	return nil
}

func countSeverities(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func failedFiles(results []driver.CheckResult, warningsAsErrors bool) int {
	n := 0
	for _, r := range results {
		if r.Bag.HasErrors() || (warningsAsErrors && r.Bag.HasWarnings()) {
			n++
		}
	}
	return n
}
