package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rpn/internal/config"
	"rpn/internal/driver"
)

// appConfig holds the merged rpn.toml, environment and flag values.
var appConfig = config.Default()

func loadAppConfig(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Load(path, "")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorFlag != "" {
		switch strings.ToLower(colorFlag) {
		case "auto", "on", "off":
			cfg.Output.Color = strings.ToLower(colorFlag)
		default:
			return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
		}
	}

	appConfig = cfg
	color.NoColor = !useColor(os.Stdout)
	return nil
}

// useColor resolves [output].color for the given stream.
func useColor(f *os.File) bool {
	switch appConfig.Output.Color {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// addEvalFlags registers the evaluation flags shared by the REPL and run.
func addEvalFlags(c *cobra.Command) {
	c.Flags().String("on-error", "", "after a failed instruction: continue|abort (default from config)")
	c.Flags().String("on-parse-error", "", "after an unparsable line: discard|partial (default from config)")
	c.Flags().Int("max-depth", 0, "maximum nesting of forced execution (0 uses the config value)")
	c.Flags().Bool("no-stdlib", false, "start without min, max, reduce, sum and avg")
}

// sessionOptions merges config values with the command's eval flags.
func sessionOptions(cmd *cobra.Command, out, errOut io.Writer, colorErr bool) (driver.SessionOptions, error) {
	onErrStr := appConfig.Eval.OnError
	onParseStr := appConfig.Eval.OnParseError
	maxDepth := appConfig.Eval.MaxDepth
	var skipStdlib bool

	flags := cmd.Flags()
	if v, err := flags.GetString("on-error"); err == nil && v != "" {
		onErrStr = v
	}
	if v, err := flags.GetString("on-parse-error"); err == nil && v != "" {
		onParseStr = v
	}
	if v, err := flags.GetInt("max-depth"); err == nil && v > 0 {
		maxDepth = v
	}
	if v, err := flags.GetBool("no-stdlib"); err == nil {
		skipStdlib = v
	}

	onErr, err := driver.ParseErrorPolicy(onErrStr)
	if err != nil {
		return driver.SessionOptions{}, err
	}
	onParse, err := driver.ParseParsePolicy(onParseStr)
	if err != nil {
		return driver.SessionOptions{}, err
	}
	return driver.SessionOptions{
		Out:           out,
		Err:           errOut,
		OnError:       onErr,
		OnParseError:  onParse,
		MaxDepth:      maxDepth,
		SkipBootstrap: skipStdlib,
		Color:         colorErr,
	}, nil
}
