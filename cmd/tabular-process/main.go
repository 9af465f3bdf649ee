package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/tabkit/tabular"
	"github.com/tabkit/tabular/config"
	"github.com/tabkit/tabular/ingest"
	"github.com/tabkit/tabular/internal/logging"
	"github.com/tabkit/tabular/transform"
)

func main() {
	inFile := flag.String("in", "", "input file to process (.csv, .tsv, .txt or .xlsx)")
	specFile := flag.String("spec", "", "optional YAML column specification file")
	configFile := flag.String("config", "", "optional YAML configuration file")
	loaderName := flag.String("loader", "", "force a specific loader by name")
	name := flag.String("name", "", "store the result under this name (defaults to the file name)")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: tabular-process -in <file> [-spec columns.yaml] [-config config.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	processor := tabular.NewProcessor(
		tabular.WithLogger(logger),
		tabular.WithCompletenessThreshold(cfg.Quality.CompletenessThreshold),
	)

	opts := tabular.ProcessOptions{
		Name:   *name,
		Loader: *loaderName,
	}
	if sep := cfg.SeparatorRune(); sep != 0 {
		opts.LoadOptions = append(opts.LoadOptions, ingest.WithSeparator(sep))
	}
	if cfg.CSV.Encoding != "" {
		opts.LoadOptions = append(opts.LoadOptions, ingest.WithEncoding(cfg.CSV.Encoding))
	}
	if len(cfg.CSV.NAValues) > 0 {
		opts.LoadOptions = append(opts.LoadOptions, ingest.WithNAValues(cfg.CSV.NAValues...))
	}

	if *specFile != "" {
		specs, err := transform.LoadColumnSpecs(*specFile)
		if err != nil {
			logger.Error("Failed to load column specification",
				slog.String("path", *specFile),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		ct, err := transform.NewColumnTransformer(specs)
		if err != nil {
			logger.Error("Invalid column specification", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := processor.RegisterTransformer(ct); err != nil {
			logger.Error("Failed to register transformer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := processor.CreatePipeline("default", ct.Name()); err != nil {
			logger.Error("Failed to create pipeline", slog.String("error", err.Error()))
			os.Exit(1)
		}
		opts.Pipeline = "default"
	}

	ctx := context.Background()
	container, err := processor.ProcessFile(ctx, *inFile, opts)
	if err != nil {
		logger.Error("Processing failed",
			slog.String("file", *inFile),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if table, ok := container.Table(); ok {
		fmt.Printf("Loaded %d rows x %d columns\n", table.NumRows(), table.NumCols())

		dtypes := table.Dtypes()
		columns := table.Columns()
		sort.Strings(columns)
		var parts []string
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%s=%s", col, dtypes[col]))
		}
		fmt.Printf("Columns: %s\n", strings.Join(parts, ", "))
	}

	report := processor.RunQualityChecks(container)
	for _, result := range report.Results {
		fmt.Println(result.Summary)
	}

	analysis := processor.Analyze(container, report)
	summary := analysis.Summary()
	fmt.Printf("Analyses run: %v\n", summary["total_analyses"])
	if insights, ok := summary["key_insights"].([]string); ok {
		for _, insight := range insights {
			fmt.Printf("  - %s\n", insight)
		}
	}

	logger.Info("Processing complete", slog.String("file", *inFile))
}
