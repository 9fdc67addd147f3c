package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/rivenscan/internal/pipeline"
	"github.com/ppiankov/rivenscan/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	vocabWeapons bool
	vocabAttrs   bool
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect and refresh the weapon and attribute vocabularies",
	Long: `The vocabularies are the known weapon names and riven attributes the
parser matches OCR text against. They come from the built-in list, a
YAML/JSON file, or the market API (cached for 24h).`,
}

var vocabShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		v, err := vocab.Resolve(ctx, cfg.Parser.Vocabulary, pipeline.NewMarketClient(cfg, newLogger()))
		if err != nil {
			return err
		}

		source := cfg.Parser.Vocabulary
		if source == "" {
			source = vocab.SourceBuiltin
		}
		fmt.Printf("Source:     %s\n", source)
		fmt.Printf("Weapons:    %d\n", len(v.Weapons))
		fmt.Printf("Attributes: %d\n", len(v.Attributes))

		if vocabWeapons {
			names := make([]string, 0, len(v.Weapons))
			for _, w := range v.Weapons {
				names = append(names, fmt.Sprintf("%-30s %-10s %s", w.DisplayName(), w.RivenType, w.URLName))
			}
			sort.Strings(names)
			fmt.Println("\nWeapons:")
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
		}
		if vocabAttrs {
			fmt.Println("\nAttributes:")
			for _, a := range v.Attributes {
				flag := ""
				if a.Inverted() {
					flag = " (inverted)"
				}
				fmt.Printf("  %-35s %s%s\n", a.URLName, a.Effect, flag)
			}
		}
		return nil
	},
}

var vocabRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Drop the cached market vocabulary and fetch it again",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		client := pipeline.NewMarketClient(cfg, newLogger())
		if err := client.InvalidateVocabulary(); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}

		v, err := vocab.FromFetcher(ctx, client)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Fetched %d weapons and %d attributes\n", len(v.Weapons), len(v.Attributes))
		return nil
	},
}

var vocabSuggestCmd = &cobra.Command{
	Use:   "suggest <name>",
	Short: "List known weapons closest to a name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		v, err := vocab.Resolve(ctx, cfg.Parser.Vocabulary, pipeline.NewMarketClient(cfg, newLogger()))
		if err != nil {
			return err
		}

		name := strings.Join(args, " ")
		suggestions := v.Suggest(name, 5, 0.7)
		if len(suggestions) == 0 {
			fmt.Fprintf(os.Stderr, "No weapon close to %q\n", name)
			return nil
		}
		for _, s := range suggestions {
			fmt.Printf("%-30s %.2f\n", s.Name, s.Similarity)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabShowCmd)
	vocabCmd.AddCommand(vocabRefreshCmd)
	vocabCmd.AddCommand(vocabSuggestCmd)

	vocabCmd.PersistentFlags().StringVar(&vocabSource, "vocab", "", "vocabulary: builtin, market, or a YAML/JSON file")
	vocabShowCmd.Flags().BoolVar(&vocabWeapons, "weapons", false, "list weapons")
	vocabShowCmd.Flags().BoolVar(&vocabAttrs, "attributes", false, "list attributes")
}
