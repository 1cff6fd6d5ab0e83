package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/internal/parser"
	asmerror "github.com/msto63/asmfmt/pkg/core/error"
)

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := openSource(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			tokens, lexErr := parser.NewLexer(file, opts.table).Tokenize()

			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				if tok.Type == parser.TokenIllegal {
					continue
				}
				fmt.Fprintf(out, "%-8s %s\n", tok.Pos, tok)
			}

			if lexErr != nil {
				printError(cmd.ErrOrStderr(), lexErr)
				return errReported
			}
			return nil
		},
	}
}

func openSource(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to open source").
			WithCode(asmerror.CodeIO).
			WithDetail("file", path).
			WithOperation("cmd.openSource")
	}
	return file, nil
}
