// Package main provides the colmeta command, which scans CSV files and
// inspects the column metadata stored in a local catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/colmeta"
	"github.com/hupe1980/colmeta/codec"
	"github.com/hupe1980/colmeta/internal/compress"
	"github.com/hupe1980/colmeta/scan"
	"github.com/hupe1980/colmeta/settings"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "colmeta"
)

type globalFlags struct {
	dir         string
	logLevel    string
	codec       string
	compression string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Collect and inspect column metadata",
		Long: `colmeta scans tables, collects the metadata of their columns
(distinct nominal values, distribution classes) and keeps it in a catalog
directory, one document per table.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.dir, "dir", "d", "./colmeta-data", "Catalog directory")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.codec, "codec", codec.Default.Name(), "Codec for new documents ("+strings.Join(codec.Names(), ", ")+")")
	cmd.PersistentFlags().StringVar(&g.compression, "compression", "lz4", "Compression for new documents (none, lz4, zstd)")

	cmd.AddCommand(
		scanCmd(g),
		listCmd(g),
		showCmd(g),
		deleteCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

func (g *globalFlags) open(ctx context.Context) (*colmeta.Catalog, error) {
	c, ok := codec.ByName(g.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", g.codec)
	}
	comp, err := compress.ParseType(g.compression)
	if err != nil {
		return nil, err
	}
	return colmeta.Open(ctx, colmeta.Local(g.dir),
		colmeta.WithCodec(c),
		colmeta.WithCompression(comp),
		colmeta.WithLogLevel(parseLevel(g.logLevel)),
	)
}

func scanCmd(g *globalFlags) *cobra.Command {
	var (
		table   string
		appendf bool
	)
	cmd := &cobra.Command{
		Use:   "scan FILE.csv",
		Short: "Scan a CSV file and store its column metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tbl, err := scan.ReadCSV(f)
			if err != nil {
				return err
			}
			if table == "" {
				table = tableFromPath(args[0])
			}

			cat, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cat.Close()

			var meta *colmeta.TableMeta
			if appendf {
				meta, err = cat.Append(cmd.Context(), table, tbl)
			} else {
				meta, err = cat.Scan(cmd.Context(), table, tbl)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d columns\n", table, meta.Rows(), meta.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table name (default: file name without extension)")
	cmd.Flags().BoolVarP(&appendf, "append", "a", false, "Merge into the stored metadata instead of replacing it")
	return cmd
}

func tableFromPath(p string) string {
	base := p[strings.LastIndexAny(p, `/\`)+1:]
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

func listCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cat.Close()

			names, err := cat.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func showCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show TABLE",
		Short: "Print the stored metadata of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, ok := codec.ByName(format)
			if !ok || out.Name() == "binary" {
				return fmt.Errorf("unsupported output format %q", format)
			}
			cat, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cat.Close()

			meta, skipped, err := cat.LoadWithReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree := settings.New()
			if err := meta.Save(tree, cat.Registry()); err != nil {
				return err
			}
			b, err := out.Marshal(tree)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(b), "\n"))
			for _, s := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s/%s: %v\n", s.Column, s.Key, s.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (yaml, json)")
	return cmd
}

func deleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TABLE...",
		Short: "Delete the stored metadata of tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cat.Close()

			for _, name := range args {
				if err := cat.Delete(cmd.Context(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
