package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/store"
)

const version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "perfpro version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "database schema %s\n", store.SchemaVersion)
		},
	}
}
