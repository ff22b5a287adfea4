package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skyview/config"
	"skyview/di"
	"skyview/domain"
	"skyview/job"
	"skyview/utils/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// fetch flags
	ra      float64
	dec     float64
	fov     float64
	survey  string
	label   string
	detail  string
	outPath string

	// prewarm flags
	targets     string
	concurrency int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cutoutctl",
	Short:         "Retrieve and prewarm sky cutouts without the HTTP server",
	Version:       version,
	SilenceUsage:  true,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve one cutout and write it to disk",
	Long: `Retrieve one cutout through the same cache and provider fallback chain
the server uses, then write the image to disk.

Examples:
  # M87 from DSS2, file name derived from the label
  cutoutctl fetch --ra 187.7059 --dec 12.3911 --fov 0.5 --survey CDS/P/DSS2/color --label M87

  # Radio survey at the highest detail tier
  cutoutctl fetch --ra 187.25 --dec 2.05 --fov 1.5 --survey VLASS --detail max -o 3c273.jpg`,
	RunE: runFetch,
}

var prewarmCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Run one prewarm pass and print the telemetry snapshot",
	Long: `Retrieve every prewarm target once so that it lands in the shared cache.
Targets are "ra,dec,fov,survey" entries separated by ';'. Without --targets
the CUTOUT_PREWARM_TARGETS setting is used.`,
	RunE: runPrewarm,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	fetchCmd.Flags().Float64Var(&ra, "ra", 0, "right ascension in degrees")
	fetchCmd.Flags().Float64Var(&dec, "dec", 0, "declination in degrees")
	fetchCmd.Flags().Float64Var(&fov, "fov", 0, "field of view in degrees")
	fetchCmd.Flags().StringVar(&survey, "survey", "CDS/P/DSS2/color", "survey identifier")
	fetchCmd.Flags().StringVar(&label, "label", "", "free-text label used for the file name")
	fetchCmd.Flags().StringVar(&detail, "detail", string(domain.DetailStandard), "detail tier: standard, high or max")
	fetchCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, defaults to the derived file name")
	_ = fetchCmd.MarkFlagRequired("ra")
	_ = fetchCmd.MarkFlagRequired("dec")
	_ = fetchCmd.MarkFlagRequired("fov")

	prewarmCmd.Flags().StringVar(&targets, "targets", "", "prewarm targets, overrides CUTOUT_PREWARM_TARGETS")
	prewarmCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel retrievals, overrides CUTOUT_PREWARM_CONCURRENCY")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(prewarmCmd)
}

// newLogger writes to stderr so stdout stays machine readable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(logger.NewRequestContextHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger.SetLogger(l)
	return l
}

func setup(ctx context.Context) (*config.Config, *di.ApplicationComponents, error) {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	container, err := di.NewApplicationComponents(ctx, cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return cfg, container, nil
}

func closeContainer(container *di.ApplicationComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cleanup: %v\n", err)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := domain.NewCutoutRequest(ra, dec, fov, survey, label, domain.DetailTier(detail))
	if err != nil {
		return err
	}

	_, container, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	result, err := container.CutoutRetrievalUsecase.Retrieve(ctx, req)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = result.FileName
	}
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "survey=%s provider=%s resolution=%s attempts=%d cache=%t bytes=%d file=%s\n",
		result.ResolvedSurvey,
		result.ResolvedProvider,
		result.Resolution,
		result.AttemptCount,
		result.CacheHit,
		len(result.Data),
		abs,
	)
	return nil
}

type prewarmReport struct {
	Summary   job.PrewarmSummary       `json:"summary"`
	Telemetry domain.TelemetrySnapshot `json:"telemetry"`
}

func runPrewarm(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, container, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	list := container.PrewarmTargets
	if targets != "" {
		if list, err = job.ParsePrewarmTargets(targets); err != nil {
			return err
		}
	}
	if len(list) == 0 {
		return fmt.Errorf("no prewarm targets: pass --targets or set CUTOUT_PREWARM_TARGETS")
	}

	limit := cfg.Prewarm.Concurrency
	if concurrency > 0 {
		limit = concurrency
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Prewarm.Timeout)
	defer cancel()

	summary, err := job.RunCutoutPrewarm(runCtx, container.CutoutRetrievalUsecase, list, limit)
	if err != nil {
		return fmt.Errorf("prewarm interrupted: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(prewarmReport{
		Summary:   summary,
		Telemetry: container.CutoutRetrievalUsecase.Telemetry(),
	})
}
