// Package main provides the bilifeed CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/PinkD/telegram-bili-feed-helper/internal/app"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/entities"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/usecase/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the bilifeed CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "bilifeed",
		Short:        "Resolve bilibili content links into render-ready feeds",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newClearCmd())

	return rootCmd
}

// runWithApp starts the dependency graph, fills targets from it, runs fn,
// then tears the graph down.
func runWithApp(ctx context.Context, fn func(context.Context) error, targets ...any) error {
	fxApp := fx.New(
		app.CreateApp(),
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx)
	if err := fxApp.Stop(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// newResolveCmd creates the resolve subcommand.
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url>...",
		Short: "Resolve content links",
		Long:  "Resolve one or more bilibili links into normalized feeds and print them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *parser.Parser
			return runWithApp(cmd.Context(), func(ctx context.Context) error {
				results := p.Resolve(ctx, args)
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.URL, r.Err)
						continue
					}
					printFeed(cmd.OutOrStdout(), r.Feed)
				}
				if failed == len(results) {
					return fmt.Errorf("no link resolved")
				}
				return nil
			}, &p)
		},
	}
}

// printFeed writes the render fields of one resolved feed.
func printFeed(w io.Writer, f entities.Feed) {
	fmt.Fprintf(w, "== %s %s\n", f.Kind(), f.URL())
	if user := f.User(); user != "" {
		fmt.Fprintf(w, "user: %s\n", user)
	}
	if content := f.Content(); content != "" {
		fmt.Fprintln(w, content)
	}
	if extra := f.ExtraMarkdown(); extra != "" {
		fmt.Fprintf(w, "extra: %s\n", extra)
	}
	if f.HasComment() {
		fmt.Fprintf(w, "comment: %s\n", f.Comment())
	}
	if m := f.Media(); len(m.URLs) > 0 {
		fmt.Fprintf(w, "media %s: %s\n", m.Type, strings.Join(m.URLs, " "))
	}
}

// printStatus writes per-kind cache row counts and their total.
func printStatus(ctx context.Context, w io.Writer, store deps.CacheStore) error {
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	var total int64
	for _, c := range counts {
		fmt.Fprintf(w, "%-8s %d\n", c.Kind, c.Rows)
		total += c.Rows
	}
	fmt.Fprintf(w, "%-8s %d\n", "total", total)
	return nil
}

// newStatusCmd creates the status subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var store deps.CacheStore
			return runWithApp(cmd.Context(), func(ctx context.Context) error {
				return printStatus(ctx, cmd.OutOrStdout(), store)
			}, &store)
		},
	}
}

// newClearCmd creates the clear subcommand.
func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <kind>",
		Short: "Drop aged cache rows of one kind",
		Long: fmt.Sprintf("Delete all cached rows of the given kind older than now.\nKinds: %s.",
			strings.Join(entities.CacheKindNames(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var store deps.CacheStore
			return runWithApp(cmd.Context(), func(ctx context.Context) error {
				deleted, err := store.DeleteKindBefore(ctx, args[0], time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows deleted\n", args[0], deleted)
				return printStatus(ctx, cmd.OutOrStdout(), store)
			}, &store)
		},
	}
}
