package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/internal/keywords"
	asmerror "github.com/msto63/asmfmt/pkg/core/error"
)

var keywordKinds = []keywords.Kind{keywords.Instruction, keywords.Prefix, keywords.Directive}

func newKeywordsCmd(opts *options) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List the keywords of the active keyword table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := keywordKinds
			if kind != "" {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				kinds = []keywords.Kind{k}
			}

			out := cmd.OutOrStdout()
			for _, k := range kinds {
				if _, err := fmt.Fprintf(out, "%s (%d)\n", k, opts.table.Len(k)); err != nil {
					return outputError(err)
				}
				for _, name := range opts.table.Names(k) {
					if _, err := fmt.Fprintf(out, "  %s\n", strings.ToLower(name)); err != nil {
						return outputError(err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "list one set only: instruction, prefix or directive")
	return cmd
}

func parseKind(name string) (keywords.Kind, error) {
	for _, k := range keywordKinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return keywords.None, asmerror.Newf("unknown keyword kind %q", name).
		WithCode(asmerror.CodeInvalidInput).
		WithOperation("cmd.parseKind")
}
