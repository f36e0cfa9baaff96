// Package cli is the readinglist command line: the server plus offline
// fixture tooling.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/entrypoint"
)

// NewRootCommand builds the readinglist command tree. Running it without a
// subcommand starts the server.
func NewRootCommand(version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:           "readinglist",
		Short:         "Personal reading list with read and unread shelves",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), version)
			return nil
		},
	}

	root.AddCommand(
		newServeCommand(version),
		newFixtureCommand(),
	)
	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (configured through environment variables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), version)
			return nil
		},
	}
}
