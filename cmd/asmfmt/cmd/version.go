package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/pkg/core/version"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			tableVersion := opts.table.Version()
			if tableVersion == "" {
				tableVersion = "unversioned"
			}

			fmt.Fprintln(out, version.String())
			fmt.Fprintf(out, "  Keyword table: %s (schema %s)\n", tableVersion, version.KeywordSchema)
			fmt.Fprintf(out, "  Go Version:    %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
