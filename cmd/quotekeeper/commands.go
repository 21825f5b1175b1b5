package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

var (
	quoteColor    = color.New(color.FgCyan)
	categoryColor = color.New(color.FgMagenta)
	successColor  = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow)
)

// withApplication wires the application for one command and closes it afterwards.
func withApplication(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *application) error) (err error) {
	a, err := newApplication(opts.cfg, opts.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	defer func() {
		err = errors.Join(err, a.Close(ctx))
	}()

	return fn(ctx, a)
}

func printQuote(w io.Writer, q domain.Quote) {
	quoteColor.Fprintf(w, "%q\n", q.Text)
	categoryColor.Fprintf(w, "  [%s]\n", q.Category)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				out := cmd.OutOrStdout()
				for _, q := range a.store.Quotes(ctx) {
					printQuote(out, q)
				}

				return nil
			})
		},
	}
}

func newRandomCmd(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		Long: `Show a random quote from the saved category, or from --category.
A --category that exists becomes the saved category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				if category == "" {
					category = a.store.SelectedCategory(ctx)
				} else if err := a.store.SetSelectedCategory(ctx, category); err != nil && !domain.IsNotFound(err) {
					return err
				}

				q, ok := a.store.GetRandomQuote(ctx, category)
				if !ok {
					warnColor.Fprintln(cmd.OutOrStdout(), domain.NoQuotesMessage)
					return nil
				}

				printQuote(cmd.OutOrStdout(), q)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", `category to pick from ("All" for every quote)`)

	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a quote and share it with the remote service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				a.pusher.Observe(app.PushObserverFunc(func(_ context.Context, o app.PushOutcome) {
					if o.Err != nil {
						warnColor.Fprintf(cmd.ErrOrStderr(), "warning: quote kept locally, remote push failed: %v\n", o.Err)
					}
				}))

				q, err := a.store.AddQuote(ctx, strings.Join(args, " "), category)
				if err != nil {
					return err
				}

				successColor.Fprintln(cmd.OutOrStdout(), "Quote added.")
				printQuote(cmd.OutOrStdout(), q)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category of the new quote (required)")

	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories; the saved one is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				selected := a.store.SelectedCategory(ctx)

				for _, c := range a.store.ListCategories(ctx) {
					marker := " "
					if c == selected {
						marker = "*"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, categoryColor.Sprint(c))
				}

				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all quotes as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				payload, err := a.store.ExportJSON(ctx)
				if err != nil {
					return err
				}

				if out == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
					return err
				}

				if err := os.WriteFile(out, append(payload, '\n'), 0o600); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}

				successColor.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", app.ExportFilename, `destination file, "-" for stdout`)

	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: `Merge quotes from a JSON export ("-" reads stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readImportFile(cmd, args[0])
			if err != nil {
				return err
			}

			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				result, err := a.store.ImportJSON(ctx, payload)
				if err != nil {
					return err
				}

				successColor.Fprintf(cmd.OutOrStdout(), "Quotes imported successfully! (added %d, skipped %d)\n",
					result.Added, result.Skipped)

				return nil
			})
		},
	}
}

func readImportFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	return payload, nil
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull new remote quotes and push the local list once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd, opts, func(ctx context.Context, a *application) error {
				result, err := a.syncer.RunOnce(ctx)
				if err != nil {
					return fmt.Errorf("sync failed, local quotes unchanged: %w", err)
				}

				successColor.Fprintf(cmd.OutOrStdout(), "Pulled %d, added %d, pushed %d.\n",
					result.Pulled, result.Added, result.Pushed)

				if result.PushErr != nil {
					warnColor.Fprintf(cmd.ErrOrStderr(), "warning: push failed: %v\n", result.PushErr)
				}

				return nil
			})
		},
	}
}
