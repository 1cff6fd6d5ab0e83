package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/internal/format"
	asmerror "github.com/msto63/asmfmt/pkg/core/error"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

const stdinName = "<stdin>"

func (o *options) run(cmd *cobra.Command, args []string) error {
	f := format.New(format.Options{Table: o.table, Logger: o.logger})

	if len(args) == 0 {
		if o.write || o.watch {
			return asmerror.New("cannot use --write or --watch with standard input").
				WithCode(asmerror.CodeInvalidInput).
				WithOperation("cmd.run")
		}
		res, err := f.Format(stdinName, cmd.InOrStdin())
		return o.handle(cmd, res, err)
	}

	failed := false
	for _, path := range args {
		if err := o.processFile(cmd, f, path); err != nil {
			failed = true
		}
	}

	if o.watch {
		return o.runWatch(cmd, f, args)
	}
	if failed {
		return errReported
	}
	return nil
}

func (o *options) processFile(cmd *cobra.Command, f *format.Formatter, path string) error {
	res, err := f.FormatFile(path)
	return o.handle(cmd, res, err)
}

// printsSource reports whether formatted source goes to stdout
func (o *options) printsSource() bool {
	return !o.write && !o.list && !o.diff && !o.check
}

// handle reports one formatting result according to the output flags.
// Sources that fail to parse are never written back.
func (o *options) handle(cmd *cobra.Command, res *format.Result, err error) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	fail := func(err error) error {
		printError(stderr, err)
		return errReported
	}

	if res == nil {
		return fail(err)
	}
	if res.Err != nil {
		o.logger.LogError(res.Err)
		printError(stderr, res.Err)
		// only source errors come with a partial rendering
		if o.printsSource() && asmerror.GetCode(res.Err).IsSourceError() {
			if _, err := stdout.Write(res.Output); err != nil {
				printError(stderr, outputError(err))
			}
		}
		return errReported
	}

	if o.list && res.Changed {
		if _, err := fmt.Fprintln(stdout, res.Name); err != nil {
			return fail(outputError(err))
		}
	}
	if o.write && res.Changed {
		if err := o.writeBack(res); err != nil {
			return fail(err)
		}
	}
	if o.diff && res.Changed {
		diff, err := res.Diff()
		if err != nil {
			return fail(err)
		}
		if _, err := fmt.Fprint(stdout, colorDiff(diff)); err != nil {
			return fail(outputError(err))
		}
	}
	if o.printsSource() {
		if _, err := stdout.Write(res.Output); err != nil {
			return fail(outputError(err))
		}
	}

	if o.check && res.Changed {
		fmt.Fprintln(stderr, warnStyle.Render(res.Name+": not formatted"))
		return errReported
	}
	return nil
}

// writeBack replaces the source file, keeping its permissions
func (o *options) writeBack(res *format.Result) error {
	info, err := os.Stat(res.Name)
	if err != nil {
		return asmerror.Wrap(err, "failed to stat source").
			WithCode(asmerror.CodeIO).
			WithDetail("file", res.Name).
			WithOperation("cmd.writeBack")
	}

	if err := os.WriteFile(res.Name, res.Output, info.Mode().Perm()); err != nil {
		return asmerror.Wrap(err, "failed to write source").
			WithCode(asmerror.CodeIO).
			WithDetail("file", res.Name).
			WithOperation("cmd.writeBack")
	}

	o.logger.Info("Formatted file", asmlog.Field("file", res.Name))
	return nil
}
