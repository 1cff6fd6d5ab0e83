// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     cmd
// Description: Command tree of the asmfmt binary
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/internal/keywords"
	"github.com/msto63/asmfmt/pkg/core/config"
	asmerror "github.com/msto63/asmfmt/pkg/core/error"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
	"github.com/msto63/asmfmt/pkg/core/logging"
)

// errReported marks a failure that has already been shown to the user
var errReported = errors.New("failure already reported")

// options holds flag values and the state built from them before a
// command runs
type options struct {
	write   bool
	list    bool
	diff    bool
	check   bool
	watch   bool
	verbose bool

	configFile   string
	keywordsFile string
	logFormat    string

	cfg    *config.Config
	logger *asmlog.Logger
	table  *keywords.Table
}

// Execute runs the command tree on os.Args
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "asmfmt [flags] [file...]",
		Short: "Formatter for NASM style x86 assembler sources",
		Long: `asmfmt aligns labels, mnemonics, operands and comments of NASM style
assembler sources into fixed columns.

Without flags the formatted source is printed to stdout. Without file
arguments the source is read from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "write result to the source file instead of stdout")
	flags.BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff instead of the formatted source")
	flags.BoolVar(&opts.check, "check", false, "exit with status 1 if any file is not formatted")
	flags.BoolVar(&opts.watch, "watch", false, "keep running and reformat files when they change")

	persistent := root.PersistentFlags()
	persistent.StringVar(&opts.configFile, "config", "", "config file (default: ./"+config.FileName+")")
	persistent.StringVar(&opts.keywordsFile, "keywords", "", "keyword table file (YAML or JSON)")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	persistent.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newVersionCmd(opts),
		newTokensCmd(opts),
		newASTCmd(opts),
		newKeywordsCmd(opts),
	)

	return root
}

// setup loads configuration, logger and keyword table
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Discover(o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	logCfg := logging.DefaultLoggerConfig("asmfmt")
	logCfg.Output = cmd.ErrOrStderr()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if o.verbose {
		logCfg.Level = "debug"
	}
	if o.logFormat != "" {
		logCfg.Format = o.logFormat
	}

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return asmerror.Wrap(err, "invalid log settings").
			WithCode(asmerror.CodeConfigError).
			WithOperation("cmd.setup")
	}
	o.logger = logger
	asmlog.SetDefault(logger)

	if cfg.Path != "" {
		logger.Debug("Loaded configuration", asmlog.Field("path", cfg.Path))
	}

	tablePath := o.keywordsFile
	if tablePath == "" {
		tablePath = cfg.Keywords.File
	}
	if tablePath == "" {
		o.table = keywords.Default()
		return nil
	}

	table, err := keywords.Load(tablePath)
	if err != nil {
		return err
	}
	o.table = table
	logger.Debug("Loaded keyword table", asmlog.Fields{
		"path":         tablePath,
		"version":      table.Version(),
		"instructions": table.Len(keywords.Instruction),
	})
	return nil
}

// outputError wraps a failed write to stdout
func outputError(err error) error {
	return asmerror.Wrap(err, "failed to write output").
		WithCode(asmerror.CodeIO).
		WithOperation("cmd.output")
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:")+" "+err.Error())
}
