package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"atlasdcat/internal/config"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/server"
)

// options 全局命令行参数
type options struct {
	envFile  string
	logLevel string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Map Atlas / Purview glossary terms to DCAT catalogs and back",
		Long: `atlasdcat reads dataset and distribution terms from an Apache Atlas or
Azure Purview glossary and publishes them as a DCAT catalog. It can also
import a DCAT catalog and write the datasets back as glossary terms.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "Env file to load (defaults to .env if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides LOG_LEVEL")

	cmd.AddCommand(exportCmd(opts), importCmd(opts), serveCmd(opts))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup 加载配置并创建应用实例
func setup(ctx context.Context, opts *options, logOut io.Writer, serve bool) (*server.Server, error) {
	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger := cfg.Log.NewLogger(logOut)
	slog.SetDefault(logger)

	// 只有 serve 使用配置的 Gin 模式，其余命令的标准输出保留给结果
	if serve {
		gin.SetMode(cfg.Server.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return srv, nil
}

func exportCmd(opts *options) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the glossary as a DCAT catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "turtle" && format != "json" {
				return fmt.Errorf("unsupported format %q (turtle, json)", format)
			}

			ctx := cmd.Context()
			srv, err := setup(ctx, opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}

			catalog, err := srv.CatalogService().ExportCatalog(ctx)
			if err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}

			if out == "" {
				return writeCatalog(cmd.OutOrStdout(), catalog, format)
			}
			return saveCatalog(out, catalog, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "turtle", "Output format (turtle, json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to stdout)")
	return cmd
}

// saveCatalog 写入文件，写入成功时返回关闭文件的错误
func saveCatalog(path string, catalog *dcat.Catalog, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	return writeAndClose(f, catalog, format)
}

func writeAndClose(wc io.WriteCloser, catalog *dcat.Catalog, format string) error {
	err := writeCatalog(wc, catalog, format)
	if closeErr := wc.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close output file: %w", closeErr)
	}
	return err
}

func writeCatalog(w io.Writer, catalog *dcat.Catalog, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(catalog)
	}
	_, err := io.WriteString(w, catalog.Turtle())
	return err
}

func importCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <catalog.json>",
		Short: "Import a DCAT catalog (JSON) into the glossary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := readCatalog(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			srv, err := setup(ctx, opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}

			svc := srv.CatalogService()
			importFn := svc.ImportCatalog
			if dryRun {
				importFn = svc.PreviewImport
			}

			terms, err := importFn(ctx, catalog)
			if err != nil {
				return fmt.Errorf("import catalog: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(terms)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Map the catalog without saving terms")
	return cmd
}

func readCatalog(path string) (*dcat.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var catalog dcat.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &catalog, nil
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := setup(ctx, opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
