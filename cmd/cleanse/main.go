// Command cleanse runs the dataset cleaning pipeline once from the command
// line: it reads one CSV or XLSX file, writes the included/excluded CSV
// files plus the summary JSON into a reports directory and prints the
// summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cleanse/internal/config"
	"cleanse/internal/exporter"
	"cleanse/internal/infrastructure"
	"cleanse/internal/registry"
	"cleanse/internal/services"
)

func main() {
	in := flag.String("in", "", "input dataset file (.csv or .xlsx)")
	out := flag.String("out", "reports", "directory for report files")
	level := flag.String("level", "warn", "log level (debug|info|warn|error)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: cleanse -in <file.csv|file.xlsx> [-out <dir>]")
		os.Exit(2)
	}

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  *level,
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}

	if err := run(context.Background(), logger, *in, *out); err != nil {
		logger.Error("cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, in, out string) error {
	file, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer file.Close()

	reg := registry.New(nil, logger)
	reports := exporter.NewReportWriter(out, logger)
	svc := services.NewDatasetService(reg, reports, nil, logger)

	dataset, err := svc.Process(ctx, filepath.Base(in), file)
	if err != nil {
		return err
	}

	report, err := svc.TopNames(ctx, dataset.ID)
	if err != nil {
		return err
	}

	sizes := dataset.Summary.DatasetSizes
	fmt.Printf("Processed %s: %d rows\n", dataset.Filename, sizes.OriginalRowCount)
	fmt.Printf("  included: %d (%.2f%%)\n", sizes.IncludedRowCount, sizes.PctIncluded)
	fmt.Printf("  excluded: %d (%.2f%%)\n", sizes.ExcludedRowCount, sizes.PctExcluded)
	fmt.Printf("  duplicate groups: %d (%d records)\n",
		dataset.Summary.Duplicates.TotalDuplicateGroups,
		dataset.Summary.Duplicates.TotalDuplicateRecords)

	fmt.Println("Top names (80% of included rows):")
	for _, tn := range report.TopNames {
		fmt.Printf("  %-30s %5d  %.2f%%\n", tn.Name, tn.Frequency, tn.Percentage)
	}

	fmt.Printf("Reports written to %s\n", filepath.Join(out, dataset.ID))
	return nil
}
