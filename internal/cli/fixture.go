package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/render"
)

func newFixtureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Inspect and produce bulk fixture files",
	}
	cmd.AddCommand(
		newValidateCommand(),
		newShelvesCommand(),
		newSeedCommand(),
	)
	return cmd
}

// sourceFor treats http(s) arguments as URLs and everything else as a path.
func sourceFor(arg string, client *http.Client) fixture.Source {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return fixture.URLSource(client, arg)
	}
	return fixture.FileSource(arg)
}

func loadArgs(ctx context.Context, args []string, timeout time.Duration) ([]entities.Book, error) {
	client := &http.Client{Timeout: timeout}
	sources := make([]fixture.Source, len(args))
	for i, arg := range args {
		sources[i] = sourceFor(arg, client)
	}
	return fixture.LoadAll(ctx, sources...)
}

// ValidateCommand checks fixtures the way a bulk load would, without loading them.
type ValidateCommand struct {
	Timeout time.Duration
}

func newValidateCommand() *cobra.Command {
	vc := &ValidateCommand{}
	cmd := &cobra.Command{
		Use:   "validate <file-or-url>...",
		Short: "Decode fixtures and check them as a single batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vc.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().DurationVar(&vc.Timeout, "timeout", 30*time.Second, "Timeout for fetching URLs")
	return cmd
}

func (vc *ValidateCommand) Run(ctx context.Context, out io.Writer, args []string) error {
	books, err := loadArgs(ctx, args, vc.Timeout)
	if err != nil {
		return err
	}
	if err := library.ValidateBatch(books); err != nil {
		return err
	}

	shelves := render.Partition(books)
	fmt.Fprintf(out, "OK: %d books (%d unread, %d read)\n", shelves.Total(), len(shelves.Unread), len(shelves.Read))
	return nil
}

// ShelvesCommand loads fixtures into a fresh library and prints both shelves.
type ShelvesCommand struct {
	Timeout time.Duration
}

func newShelvesCommand() *cobra.Command {
	sc := &ShelvesCommand{}
	cmd := &cobra.Command{
		Use:   "shelves <file-or-url>...",
		Short: "Load fixtures into an empty library and print the unread and read shelves",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sc.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().DurationVar(&sc.Timeout, "timeout", 30*time.Second, "Timeout for fetching URLs")
	return cmd
}

func (sc *ShelvesCommand) Run(ctx context.Context, out io.Writer, args []string) error {
	books, err := loadArgs(ctx, args, sc.Timeout)
	if err != nil {
		return err
	}

	ctrl := controller.New(library.New())
	outcome, err := ctrl.Dispatch(controller.BulkLoad{Books: books, Mode: library.LoadModeReplace})
	if err != nil {
		return err
	}

	printShelf(out, "To read", outcome.Shelves.Unread)
	printShelf(out, "Read", outcome.Shelves.Read)
	return nil
}

func printShelf(out io.Writer, name string, books []entities.Book) {
	if len(books) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d)\n", name, len(books))
	for _, b := range books {
		fmt.Fprintf(out, "  %-40s %-25s %4d %5dp %s\n", truncate(b.Title, 40), truncate(b.Author, 25), b.Year, b.Pages, render.FormatRating(b.Rating))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SeedCommand writes the embedded seed fixture.
type SeedCommand struct {
	Output string
}

func newSeedCommand() *cobra.Command {
	sc := &SeedCommand{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in seed fixture to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sc.Run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&sc.Output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func (sc *SeedCommand) Run(out io.Writer) error {
	if sc.Output == "" {
		_, err := out.Write(fixture.SeedBytes())
		return err
	}
	if err := os.WriteFile(sc.Output, fixture.SeedBytes(), 0644); err != nil {
		return fmt.Errorf("write seed fixture: %w", err)
	}
	fmt.Fprintf(out, "Wrote seed fixture to %s\n", sc.Output)
	return nil
}
