// Command wiredump prints protobuf payloads, with or without a schema.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    Config
	logger zerolog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

type globalFlags struct {
	configPath string
	protoDirs  []string
	format     string
	maxDepth   int
	logLevel   string
	hex        bool
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "wiredump").Logger()
}

func (a *app) rootCmd() *cobra.Command {
	var flags globalFlags
	a.logger = zerolog.Nop()

	root := &cobra.Command{
		Use:           "wiredump",
		Short:         "Inspect protobuf wire-format payloads",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "TOML config file")
	pf.StringSliceVarP(&flags.protoDirs, "proto-path", "I", nil, "directories searched for .proto imports")
	pf.StringVar(&flags.format, "format", formatText, "output format: text|json")
	pf.IntVar(&flags.maxDepth, "max-depth", 0, "levels of nested payloads raw expands")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&flags.hex, "hex", false, "input is hex text")

	root.AddCommand(a.rawCmd(), a.decodeCmd(), a.varintCmd(), a.keyCmd())
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

// configure layers file, environment and flags into a.cfg.
func (a *app) configure(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("proto-path") {
		cfg.ProtoDirs = normalizeDirs(flags.protoDirs)
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("max-depth") {
		cfg.MaxDepth = flags.maxDepth
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("hex") {
		cfg.Hex = flags.hex
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(a.errOut, cfg.LogLevel)
	a.logger.Debug().
		Strs("proto_dirs", cfg.ProtoDirs).
		Str("format", cfg.Format).
		Int("max_depth", cfg.MaxDepth).
		Bool("hex", cfg.Hex).
		Msg("configuration loaded")
	return nil
}
