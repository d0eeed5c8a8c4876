// Package main provides the patrol audit agent binary. One invocation
// performs one complete audit run against the configured travel site:
// the must-not-break sweep in English and Arabic, the week's rotating
// feature check, and the two report exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atotto/clipboard"

	"github.com/entrhq/patrol/pkg/audit"
	"github.com/entrhq/patrol/pkg/browser"
	"github.com/entrhq/patrol/pkg/config"
	"github.com/entrhq/patrol/pkg/logging"
	"github.com/entrhq/patrol/pkg/report"
)

const version = "0.1.0"

// cliOptions carries the parsed command line. Zero values mean "not
// given"; explicitly set flags are tracked so a flag can override the
// config file and environment.
type cliOptions struct {
	configPath   string
	baseURL      string
	startIndex   int
	platform     string
	artifactsDir string
	headful      bool
	failOnUrgent bool
	copyReport   bool
	showVersion  bool

	set map[string]bool
}

func main() {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("patrol v%s\n", version)
		return
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Signal handling for graceful shutdown: an interrupted run stops
	// scheduling checks but still exports what it recorded.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, cfg); runErr != nil {
		cancel()
		log.Fatalf("Audit run error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags.
func parseFlags() *cliOptions {
	opts := &cliOptions{set: map[string]bool{}}

	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file (optional)")
	flag.StringVar(&opts.baseURL, "base-url", "", "Site origin to audit (overrides config file and baseURL env var)")
	flag.IntVar(&opts.startIndex, "start-index", 0, "First finding number (overrides config file and START_INDEX env var)")
	flag.StringVar(&opts.platform, "platform", "", "Audit surface: desktop-web, mobile-web, android or ios")
	flag.StringVar(&opts.artifactsDir, "artifacts", "", "Directory for screenshots and report files")
	flag.BoolVar(&opts.headful, "headful", false, "Run the browser with a visible window")
	flag.BoolVar(&opts.failOnUrgent, "fail-on-urgent", false, "Exit non-zero when any urgent finding was recorded")
	flag.BoolVar(&opts.copyReport, "copy", false, "Copy the markdown report to the clipboard after the run")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Patrol - weekly guest-facing site audit\n\n")
		fmt.Fprintf(os.Stderr, "Usage: patrol [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  baseURL        Site origin to audit\n")
		fmt.Fprintf(os.Stderr, "  START_INDEX    First finding number\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  patrol                                   # audit the default site\n")
		fmt.Fprintf(os.Stderr, "  patrol -config patrol.yaml\n")
		fmt.Fprintf(os.Stderr, "  patrol -base-url https://staging.example.com -start-index 200\n")
		fmt.Fprintf(os.Stderr, "  patrol -platform mobile-web -fail-on-urgent\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts
}

// resolveConfig layers the configuration sources: defaults, then the
// optional config file, then environment variables, then explicitly
// set flags.
func resolveConfig(opts *cliOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.set["base-url"] {
		cfg.Site.BaseURL = opts.baseURL
	}
	if opts.set["start-index"] {
		cfg.Checks.StartIndex = opts.startIndex
	}
	if opts.set["platform"] {
		cfg.Site.Platform = opts.platform
	}
	if opts.set["artifacts"] {
		cfg.Artifacts.Dir = opts.artifactsDir
	}
	if opts.set["headful"] {
		cfg.Browser.Headless = !opts.headful
	}
	if opts.set["fail-on-urgent"] {
		cfg.Report.FailOnUrgent = opts.failOnUrgent
	}
	if opts.set["copy"] {
		cfg.Report.CopyToClipboard = opts.copyReport
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes one audit run end to end. Only a collaborator startup
// failure or a configuration problem returns an error; check-level
// trouble becomes findings, and a run that completes always writes
// both report files.
func run(ctx context.Context, cfg *config.Config) error {
	logger, _ := logging.New("patrol")
	defer logger.Close()

	platform, err := audit.ParsePlatform(cfg.Site.Platform)
	if err != nil {
		return err
	}

	filter, err := audit.NewURLFilter(cfg.Checks.IgnoreURLs)
	if err != nil {
		return err
	}

	width, height := cfg.Browser.Width, cfg.Browser.Height
	if width == 0 {
		width, height = platform.Viewport()
	}

	session, err := browser.Launch(browser.Options{
		Headless:     cfg.Browser.Headless,
		Width:        width,
		Height:       height,
		NavTimeoutMS: cfg.Browser.NavTimeoutMS,
		SettleMS:     cfg.Browser.SettleMS,
	})
	if err != nil {
		return fmt.Errorf("browser startup failed: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warnf("browser shutdown: %v", closeErr)
		}
	}()

	recorder, err := audit.NewRecorder(audit.RecorderOptions{
		IDs:            audit.NewIDAllocator(cfg.Checks.StartIndex),
		Screenshots:    session,
		Filter:         filter,
		Platform:       platform,
		Date:           audit.RunDate(cfg.Checks.Timezone),
		ScreenshotsDir: filepath.Join(cfg.Artifacts.Dir, "screenshots"),
	})
	if err != nil {
		return err
	}

	runner := audit.NewRunner(session, recorder, audit.RunnerConfig{
		BaseURL:          cfg.Site.BaseURL,
		TrustPages:       cfg.Checks.TrustPages,
		UnknownRoute:     cfg.Checks.UnknownRoute,
		MinBodyChars:     cfg.Checks.MinBodyChars,
		HealthyStatusMin: cfg.Checks.HealthyStatusMin,
		HealthyStatusMax: cfg.Checks.HealthyStatusMax,
		Timezone:         cfg.Checks.Timezone,
	})

	runCtx, cancelRun := context.WithTimeout(ctx, cfg.Browser.RunTimeout)
	defer cancelRun()
	runner.Run(runCtx)

	findings := recorder.Findings()

	writer := report.NewWriter(cfg.Artifacts.Dir)
	exportErr := writer.WriteAll(findings)

	report.PrintSummary(os.Stdout, findings, cfg.Artifacts.Dir)

	if cfg.Report.CopyToClipboard {
		copyMarkdownReport(cfg.Artifacts.Dir, logger)
	}

	if exportErr != nil {
		return fmt.Errorf("report export failed: %w", exportErr)
	}
	if cfg.Report.FailOnUrgent && recorder.HasUrgent() {
		return fmt.Errorf("run recorded urgent findings")
	}
	return nil
}

// copyMarkdownReport puts the markdown report on the system clipboard
// for pasting into a tracker. Clipboard trouble never fails the run.
func copyMarkdownReport(dir string, logger *logging.Logger) {
	data, err := os.ReadFile(filepath.Join(dir, report.MarkdownFileName))
	if err != nil {
		logger.Warnf("clipboard copy skipped, report unreadable: %v", err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		logger.Warnf("clipboard copy failed: %v", err)
		return
	}
	logger.Infof("markdown report copied to clipboard")
}
