// Package main provides the converter command-line tool, which fetches a
// SchaleDB JSON document and writes its normalized records to a JSON file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"schaledb/internal/config"
	"schaledb/internal/fetcher"
	"schaledb/internal/logger"
	"schaledb/internal/models"
	"schaledb/internal/pipeline"
)

// Exit codes. The tool used to exit 0 even when the fetch failed; failures
// now exit non-zero so scripted runs can detect them.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("converter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	kindNames := make([]string, 0, len(models.Kinds))
	for _, k := range models.Kinds {
		kindNames = append(kindNames, k.String())
	}

	dataType := fs.String("type", "", "Type of data to process ("+strings.Join(kindNames, "|")+")")
	sourceURL := fs.String("url", "", "URL (or local path) to fetch JSON data from")
	output := fs.String("output", "", "Output JSON file path")
	configFile := fs.String("config", "", "Path to YAML configuration file (default "+config.DefaultPath+" if present)")
	dbPath := fs.String("db", "", "Also export records into this SQLite database")
	showReport := fs.Bool("report", false, "Print a table of skipped entries")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	required := []struct{ name, value string }{
		{"--type", *dataType},
		{"--url", *sourceURL},
		{"--output", *output},
	}

	var missing []string

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(stderr, "❌ Missing required arguments: %s\n\n", strings.Join(missing, ", "))
		fs.Usage()

		return exitUsage
	}

	if _, err := models.ParseKind(*dataType); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)

		return exitUsage
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Failed to load config: %v\n", err)

		return exitUsage
	}

	if *logLevel != "" {
		if _, err := logger.ParseLevel(*logLevel); err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)

			return exitUsage
		}

		cfg.Logging.Level = *logLevel
	}

	log := logger.NewLoggerWithWriter(stderr, cfg.Logging.Level)
	log.Debug("configuration loaded", "config", cfg.String())

	summary, err := pipeline.NewRunner(cfg, log).Run(ctx, pipeline.Options{
		Kind:         *dataType,
		Source:       *sourceURL,
		Output:       *output,
		DBPath:       *dbPath,
		Report:       *showReport,
		ReportWriter: stdout,
	})
	if err != nil {
		return reportError(stderr, err, summary != nil)
	}

	fmt.Fprintf(stdout, "Processed %d entries. Saved to %s\n", summary.Count, summary.Output)

	return exitOK
}

// reportError prints a diagnostic for a failed run and picks the exit code.
func reportError(stderr io.Writer, err error, outputWritten bool) int {
	var (
		transportErr *fetcher.TransportError
		decodeErr    *fetcher.DecodeError
		configErr    *models.ConfigError
	)

	switch {
	case errors.As(err, &configErr):
		fmt.Fprintf(stderr, "❌ %v\n", err)

		return exitUsage
	case errors.As(err, &transportErr):
		fmt.Fprintf(stderr, "❌ Error fetching data: %v\n", transportErr.Err)
	case errors.As(err, &decodeErr):
		fmt.Fprintf(stderr, "❌ Invalid JSON received from URL: %v\n", decodeErr.Err)
	case outputWritten:
		fmt.Fprintf(stderr, "⚠️  Output was written, but a later step failed: %v\n", err)
	default:
		fmt.Fprintf(stderr, "❌ %v\n", err)
	}

	return exitFailure
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()

	fmt.Fprintln(w, "Usage: converter --type <item|student|equipment> --url <URL> --output <file.json> [OPTIONS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  converter --type item --url https://schaledb.com/data/en/items.min.json --output items.json")
	fmt.Fprintln(w, "  converter --type equipment --url ./equipment.json --output out/equipment.json --report")
}
