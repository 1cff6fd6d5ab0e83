package cmd

import (
	"github.com/spf13/cobra"

	asmast "github.com/msto63/asmfmt/internal/ast"
	"github.com/msto63/asmfmt/internal/parser"
)

func newASTCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the parsed syntax tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := openSource(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			p := parser.New(parser.NewLexer(file, opts.table), parser.Options{
				Logger: opts.logger.WithField("file", args[0]),
			})
			lines, parseErr := p.Parse()

			// the tree up to and including the error marker is still printed
			if err := asmast.Dump(cmd.OutOrStdout(), lines); err != nil {
				return err
			}
			if parseErr != nil {
				printError(cmd.ErrOrStderr(), parseErr)
				return errReported
			}
			return nil
		},
	}
}
