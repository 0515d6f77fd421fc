// Package main is the entry point for evalreport.
// evalreport turns teaching-evaluation analyses into standalone HTML and PDF reports.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/check"
	"github.com/evalplatform/evalreport/internal/config"
	"github.com/evalplatform/evalreport/internal/database"
	"github.com/evalplatform/evalreport/internal/inspect"
	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/internal/report/exporter"
	"github.com/evalplatform/evalreport/internal/server"
	"github.com/evalplatform/evalreport/internal/store"
	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
	"github.com/evalplatform/evalreport/pkg/telemetry"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

// envFile holds the path to an optional .env file
var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evalreport",
		Short: "evalreport - teaching evaluation report exporter",
		Long: `evalreport renders the analysis of a teaching-evaluation survey into a
self-contained HTML document or a printed PDF, from the command line or
over a small REST API that also keeps saved reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFile)
		},
	}

	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment variables for ${VAR} expansion")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the evalreport server",
		Long: `Start the HTTP server that exports posted documents and keeps saved reports.

On first run, use --check flag to interactively set up your environment:
  evalreport serve --check

This will guide you through:
  - Creating the configuration file with default settings
  - Validating the configuration and the output directory
  - Locating Chrome for PDF export`,
		Run: runServe,
	}
	cmd.Flags().String("host", "", "server host (overrides config)")
	cmd.Flags().Int("port", 0, "server port (overrides config)")
	cmd.Flags().Bool("debug", false, "enable debug mode")
	cmd.Flags().Bool("check", false, "run interactive environment check before starting server")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an analysis document to HTML or PDF",
		Example: `  evalreport export -i analysis.json
  evalreport export -i analysis.json -o ./out --format pdf`,
		RunE: runExport,
	}
	cmd.Flags().StringP("input", "i", "", "analysis JSON file (required)")
	cmd.Flags().StringP("output", "o", "", "output directory (default: export.output_dir)")
	cmd.Flags().StringP("format", "f", string(exporter.ExportFormatHTML), "export format (html, pdf)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize an analysis document without exporting it",
		RunE:  runInspect,
	}
	cmd.Flags().StringP("input", "i", "", "analysis JSON file (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			checker := check.NewChecker(configPath)
			written, err := checker.InitConfig(force)
			if err != nil {
				return err
			}
			if written {
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", checker.ConfigPath())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Kept existing %s\n", checker.ConfigPath())
			}
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing file without asking")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "evalreport %s\n", consts.Version)
			fmt.Fprintf(out, "  Build Time: %s\n", consts.BuildTime)
			fmt.Fprintf(out, "  Git Commit: %s\n", consts.GitCommit)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// readDocument loads and classifies an analysis file
func readDocument(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return model.ParseDocument(data)
}

// runExport renders one document to a file
func runExport(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := exporter.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if output == "" {
		output = cfg.Export.OutputDir
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	path, err := report.NewExporterFromConfig(cfg.Export).ExportToFile(ctx, doc, output, format)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s report written to %s (%s)\n",
		doc.Kind, filepath.Clean(path), time.Since(start).Round(time.Millisecond))
	return nil
}

// runInspect prints a summary of one document
func runInspect(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	inspect.Print(cmd.OutOrStdout(), inspect.Summarize(doc))
	return nil
}

// runServe starts the evalreport server
func runServe(cmd *cobra.Command, args []string) {
	interactiveCheck, _ := cmd.Flags().GetBool("check")

	checker := check.NewChecker(configPath)
	if interactiveCheck {
		if err := checker.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Environment check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n✓ Environment check completed successfully")
	} else {
		result := checker.RunNonInteractive()
		if !result.Success {
			check.PrintCheckResult(result)
			if result.ConfigInvalid {
				os.Exit(errors.ExitCodeConfigValidation)
			}
			os.Exit(1)
		}
		printWarnings(os.Stderr, result.Warnings)
	}

	consts.SetStartedAt(time.Now())

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyServeFlags(cmd, cfg)

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting evalreport",
		zap.String("version", consts.Version),
		zap.String("config", configPath),
	)

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	if err := database.InitWithPath(cfg.Database.Path); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	dataStore := store.NewStore(database.Get())
	exp := report.NewExporterFromConfig(cfg.Export)

	srv := server.New(cfg, dataStore, exp)
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("evalreport server is running",
		zap.String("address", cfg.Server.Address()),
	)

	srv.WaitForShutdown()

	logger.Info("evalreport stopped")
}

// applyServeFlags overrides config with command line flags
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}
}

// printWarnings shows startup warnings without blocking startup
func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "[WARNING] %s\n", warn)
	}
	fmt.Fprintln(w)
}
