package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/pipeline"
	"github.com/spf13/cobra"
)

var showURLs bool

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <image|text-file|url|->",
	Short: "Find comparable market listings for a riven",
	Long: `Search parses one riven, then queries the market for similar rivens on
the same weapon. The full stat set is searched first, then relaxed
variants (negative dropped, one positive dropped) and variants that
swap a stat for an interchangeable one (e.g. Heat for Cold).

The result is a comparability index and a suggested price: the median
buyout of listings sharing at least half of the positive stats.

Example:
  rivenscan search lenz.png
  rivenscan search lenz.txt --urls`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, md (default from config)")
	searchCmd.Flags().BoolVar(&showURLs, "urls", false, "print the market search URL of each query")
	addCommonFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	client := pipeline.NewMarketClient(cfg, newLogger())
	stages := pipeline.Stages{Search: true, Save: cfg.Store.Enabled}
	s, err := openSession(ctx, cfg, stages, pipeline.WithMarket(client))
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.pipeline.Parse(ctx, args[0], os.Stdin)
	if err != nil {
		return err
	}
	if !report.Validation.IsValid {
		fmt.Fprintf(os.Stderr, "⚠️  Searching with an incomplete parse\n")
	}
	if err := s.pipeline.Finish(ctx, report); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
	}

	if err := pipeline.NewRenderer().Render(os.Stdout, report, cfg.Output.Format); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	printWeaponHint(s, report)

	if len(report.Queries) == 0 {
		fmt.Fprintf(os.Stderr, "✗ No searchable stats or unknown weapon\n")
		return nil
	}
	if showURLs {
		printQueryURLs(report.Queries, client.SearchURL)
	}
	return nil
}

func printQueryURLs(results []model.SearchResult, searchURL func(map[string]string) string) {
	fmt.Println()
	for _, r := range results {
		fmt.Printf("%s\n  %s\n", r.Query.Label, searchURL(r.Query.Params))
	}
}
