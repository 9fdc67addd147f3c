package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ppiankov/rivenscan/internal/pipeline"
	"github.com/ppiankov/rivenscan/internal/worker"
	"github.com/spf13/cobra"
)

var concurrency int

const defaultBatchTimeout = 10 * time.Minute

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Parse many screenshots listed in a file in parallel",
	Long: `Batch processes many inputs concurrently:
- Read image paths, text files or URLs from the list (one per line, # comments)
- Parse them in parallel with a configurable worker count
- Write a JSON and a Markdown report per input

Relative paths are resolved against the list file's directory.

Example:
  rivenscan batch shots.txt
  rivenscan batch shots.txt --concurrency 8 --output-dir ./reports
  rivenscan batch shots.txt --search --timeout 30m

The --timeout flag bounds the whole batch (default 10m).`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outDir, "output-dir", "./rivenscan-reports", "output directory for reports")
	batchCmd.Flags().BoolVar(&withSearch, "search", false, "search the market for comparable listings")
	addCommonFlags(batchCmd)
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	total := timeout
	if !cmd.Flags().Changed("timeout") {
		total = defaultBatchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), total)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("concurrency") && cfg.Concurrency.Workers > 0 {
		concurrency = cfg.Concurrency.Workers
	}
	dir := outDir
	if !cmd.Flags().Changed("output-dir") && cfg.Output.Dir != "" {
		dir = cfg.Output.Dir
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", rule)
	fmt.Fprintf(os.Stderr, "  Rivenscan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "%s\n\n", rule)
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", total)
	if cfg.LLM.Enabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	stages := pipeline.Stages{
		Search:   withSearch,
		Describe: cfg.LLM.Enabled,
		Save:     cfg.Store.Enabled,
	}
	s, err := openSession(ctx, cfg, stages)
	if err != nil {
		return err
	}
	defer s.Close()

	processor := worker.NewBatchProcessor(s.pipeline, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Processing inputs with %d workers...\n\n", concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer()
	successCount, invalidCount, failureCount := 0, 0, 0
	for i, result := range results {
		if result.Report == nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Input, result.Error)
			continue
		}
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", result.Input, result.Error)
		}

		report := result.Report
		name := fmt.Sprintf("%03d-%s", i+1, reportSlug(report))
		if err := writeReportFiles(renderer, report, dir, name); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Input, err)
			continue
		}

		successCount++
		status := "✓"
		if !report.Validation.IsValid {
			invalidCount++
			status = "⚠️ "
		}
		line := fmt.Sprintf("%s %s → %s", status, result.Input, report.Record.Weapon())
		if report.Names.Recommended != "" {
			line += " " + report.Names.Recommended
		}
		if report.Estimate != nil && report.Estimate.SuggestedPrice != nil {
			line += fmt.Sprintf(" (~%dp)", *report.Estimate.SuggestedPrice)
		}
		fmt.Fprintln(os.Stderr, line)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", rule)
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "%s\n\n", rule)
	fmt.Fprintf(os.Stderr, "  Total:     %d inputs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d (%d incomplete)\n", successCount, invalidCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n\n", dir)
	return nil
}
