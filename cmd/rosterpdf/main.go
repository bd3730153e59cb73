package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careops/rosterpdf/internal/config"
	"github.com/careops/rosterpdf/internal/domain/adherence"
	"github.com/careops/rosterpdf/internal/domain/report"
	"github.com/careops/rosterpdf/internal/domain/roster"
	"github.com/careops/rosterpdf/internal/platform/db"
	"github.com/careops/rosterpdf/internal/platform/middleware"
	"github.com/careops/rosterpdf/internal/platform/pdf"
	"github.com/careops/rosterpdf/internal/platform/telemetry"
)

// Set at build time via -ldflags.
var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterpdf",
		Short: "Provider roster document service",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(measuresCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger().Level(level)
	}
	return logger
}

// loadMeasures resolves the measure set: the compiled-in triad unless a
// measures file overrides it.
func loadMeasures(cfg *config.Config) ([]adherence.MeasureDef, error) {
	if cfg.MeasuresFile == "" {
		return adherence.DefaultMeasures(), nil
	}
	return adherence.LoadMeasureFile(cfg.MeasuresFile)
}

func buildGenerator(cfg *config.Config) (*pdf.Generator, error) {
	measures, err := loadMeasures(cfg)
	if err != nil {
		return nil, err
	}

	layout := pdf.DefaultLayout()
	layout.PageSize = pdf.PageSize(cfg.PageSize)

	return pdf.NewGenerator(layout, pdf.Options{
		Measures:    measures,
		Year:        cfg.ReportYear,
		TitleSuffix: cfg.ReportTitleSuffix,
		Subtitle:    cfg.ReportSubtitle,
		LogoPath:    cfg.LogoPath,
	})
}

func buildService(cfg *config.Config, logger zerolog.Logger, metrics report.BuildRecorder) (*report.Service, error) {
	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	narrative := ""
	if cfg.NarrativeFile != "" {
		data, err := os.ReadFile(cfg.NarrativeFile)
		if err != nil {
			return nil, fmt.Errorf("read narrative file: %w", err)
		}
		narrative = strings.TrimSpace(string(data))
	}

	return report.NewService(gen, report.Config{
		OutputDir: cfg.OutputDir,
		Narrative: narrative,
		Workers:   cfg.Workers,
		Metrics:   metrics,
	}, logger), nil
}

// resolveSource picks the roster source for a run. The pool is non-nil
// only for the database source; the caller owns closing it. All nils
// means nothing is configured.
func resolveSource(ctx context.Context, cfg *config.Config, sample bool) (roster.Source, *pgxpool.Pool, error) {
	switch {
	case sample:
		return roster.SampleSource{}, nil, nil
	case cfg.CSVPath != "":
		return roster.NewCSVSource(cfg.CSVPath), nil, nil
	case cfg.DatabaseURL != "":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		src, err := roster.NewPGSource(pool, cfg.RosterTable)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return src, pool, nil
	default:
		return nil, nil, nil
	}
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one document per provider group",
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, _ := cmd.Flags().GetBool("sample")
			csvPath, _ := cmd.Flags().GetString("csv")
			outDir, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if csvPath != "" {
				cfg.CSVPath = csvPath
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg)

			ctx := context.Background()
			src, pool, err := resolveSource(ctx, cfg, sample)
			if err != nil {
				return err
			}
			if src == nil {
				return fmt.Errorf("no roster source configured; pass --sample or --csv, or set CSV_PATH or DATABASE_URL")
			}
			if pool != nil {
				defer pool.Close()
			}

			svc, err := buildService(cfg, logger, nil)
			if err != nil {
				return err
			}

			results, err := svc.Run(ctx, src)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Failed() {
					failed++
					fmt.Printf("%-40s FAILED  %v\n", r.Key, r.Err)
					continue
				}
				fmt.Printf("%-40s %3d page(s)  %8d bytes  %s\n",
					r.Key, r.Artifact.Pages, r.Artifact.Bytes, r.Artifact.FileName)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().Bool("sample", false, "Render the embedded demonstration data set")
	cmd.Flags().String("csv", "", "Path to a roster CSV file (overrides CSV_PATH)")
	cmd.Flags().String("out", "", "Output directory (overrides OUTPUT_DIR)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the roster document API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	telem := telemetry.NewProvider(telemetry.Config{
		ServiceVersion: version,
		Environment:    cfg.Env,
	})

	svc, err := buildService(cfg, logger, telem)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build report service")
	}

	// Roster source for batch runs; serve works without one
	ctx := context.Background()
	src, pool, err := resolveSource(ctx, cfg, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure roster source")
	}
	if pool != nil {
		defer pool.Close()
		logger.Info().Msg("connected to database")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(telem.MetricsMiddleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.AuthSecret == "" {
		logger.Warn().Msg("AUTH_SECRET not set; API authentication is disabled")
	}

	// API group
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.AuthSecret))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.BodyLimit(cfg.BodyLimit))
	apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	report.NewHandler(svc, src).RegisterRoutes(apiV1)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}
	e.GET("/metrics", telem.PrometheusHandler())

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func measuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "measures",
		Short: "Print the configured measure definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			measures, err := loadMeasures(cfg)
			if err != nil {
				return err
			}

			year := cfg.ReportYear
			if year == 0 {
				year = time.Now().Year()
			}
			labels := adherence.PeriodLabels(year)

			fmt.Printf("%-20s %-20s %s\n", "MEASURE", "FIELD PREFIX", "PERIODS")
			fmt.Println("-------------------- -------------------- --------")
			for _, d := range measures {
				fmt.Printf("%-20s %-20s %s %s %s\n", d.Label, d.Prefix, labels[0], labels[1], labels[2])
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run roster database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("rosterpdf %s (%s)\n", version, commit)
			return nil
		},
	}
}
