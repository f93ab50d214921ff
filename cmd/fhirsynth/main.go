package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/legitrace/fhirsynth/internal/config"
	"github.com/legitrace/fhirsynth/internal/plan"
	"github.com/legitrace/fhirsynth/internal/platform/middleware"
	"github.com/legitrace/fhirsynth/internal/server"
	"github.com/legitrace/fhirsynth/internal/synth"
	"github.com/legitrace/fhirsynth/internal/validate"
	"github.com/legitrace/fhirsynth/internal/writer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fhirsynth",
		Short: "Deterministic synthetic FHIR dataset generator",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func generateCmd() *cobra.Command {
	var planPath, outPath, format string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset from a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}
			if outPath != "" {
				p.Outputs.Path = outPath
			}
			if format != "" {
				p.Outputs.Format = format
				if err := p.Validate(); err != nil {
					return err
				}
			}

			gen, err := synth.NewGenerator(p, logger)
			if err != nil {
				return err
			}
			graph, err := gen.Generate()
			if err != nil {
				return err
			}

			result := validate.Dataset(graph, p)
			if !result.IsValid() {
				logger.Error().
					Int("errors", len(result.Errors)).
					Int("warnings", len(result.Warnings)).
					Msg("dataset failed validation")
				fmt.Fprintln(os.Stderr, result.Summary())
			} else if len(result.Warnings) > 0 {
				logger.Warn().Int("warnings", len(result.Warnings)).Msg("dataset has warnings")
			}

			if err := writer.Write(graph, p); err != nil {
				return err
			}

			for _, rt := range graph.Types() {
				logger.Info().Str("type", rt).Int("count", len(graph.IDs(rt))).Msg("generated")
			}
			logger.Info().
				Int("total", graph.Len()).
				Str("path", p.Outputs.Path).
				Str("format", p.Outputs.Format).
				Msg("output written")

			if !result.IsValid() {
				// Output is still written so the dataset can be inspected.
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Path to the plan file (YAML or JSON)")
	cmd.Flags().StringVar(&outPath, "out", "", "Override the plan's output path")
	cmd.Flags().StringVar(&format, "format", "", "Override the plan's output format (ndjson, bundle, files)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func validateCmd() *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Generate a dataset in memory and report validation findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}
			gen, err := synth.NewGenerator(p, logger)
			if err != nil {
				return err
			}
			graph, err := gen.Generate()
			if err != nil {
				return err
			}

			result := validate.Dataset(graph, p)
			fmt.Println(result.Summary())
			if !result.IsValid() {
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Path to the plan file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func initCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write example plan files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			examples := []struct {
				name string
				plan *plan.Plan
			}{
				{"minimal.yml", plan.MinimalExample()},
				{"multi-org.yml", plan.MultiOrgExample()},
			}
			for _, ex := range examples {
				path := filepath.Join(dir, ex.name)
				if err := ex.plan.Save(path); err != nil {
					return err
				}
				fmt.Println("wrote", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write example plans into")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the generation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := newLogger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.BodyLimit(cfg.MaxBodySize))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))

	srv := server.New(logger, cfg.MaxPersons)
	srv.Register(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
