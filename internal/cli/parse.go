package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/pipeline"
	"github.com/ppiankov/rivenscan/internal/store"
	"github.com/ppiankov/rivenscan/internal/util"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	outFormat   string
	outDir      string
	timeout     time.Duration
	vocabSource string
	noCache     bool
	noSave      bool
	noClean     bool
	noPreproc   bool
	withSearch  bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	httpProxy   string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <image|text-file|url|->...",
	Short: "Parse riven screenshots or OCR text into structured records",
	Long: `Parse reads each input and recovers:
- The weapon name, matched against the weapon vocabulary
- Up to four stat lines with value, sign and matched attribute
- Mastery rank, rerolls and polarity from the card footer
- A suggested riven name

Inputs ending in an image extension (or http(s) URLs) go through
preprocessing and OCR; anything else is read as OCR text. Use "-" to
read text from stdin.

Example:
  rivenscan parse lenz.png
  rivenscan parse lenz.png --format json
  tesseract card.png - | rivenscan parse -
  rivenscan parse card.png --search --llm --llm-provider ollama --llm-model llama3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, md (default from config)")
	parseCmd.Flags().StringVar(&outDir, "output-dir", "", "also write <name>.json and <name>.md reports here")
	parseCmd.Flags().BoolVar(&withSearch, "search", false, "search the market for comparable listings")
	addCommonFlags(parseCmd)
	addLLMFlags(parseCmd)
}

// addCommonFlags registers flags shared by commands that build a pipeline
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	cmd.Flags().StringVar(&vocabSource, "vocab", "", "vocabulary: builtin, market, or a YAML/JSON file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the vocabulary and search cache")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record reports in the history database")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "skip OCR noise-line cleaning")
	cmd.Flags().BoolVar(&noPreproc, "no-preprocess", false, "send images to OCR without preprocessing")
	cmd.Flags().StringVar(&httpProxy, "proxy", "", "HTTP proxy URL (overrides HTTP(S)_PROXY)")
}

// addLLMFlags registers the listing-description flags
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate a listing description")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// commandConfig loads the configuration and applies flags set on cmd
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("vocab") {
		cfg.Parser.Vocabulary = vocabSource
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-save") {
		cfg.Store.Enabled = !noSave
	}
	if flags.Changed("no-clean") {
		cfg.Parser.CleanText = !noClean
	}
	if flags.Changed("no-preprocess") {
		cfg.Preprocess.Enabled = !noPreproc
	}
	if flags.Changed("proxy") {
		cfg.HTTP.Proxy = httpProxy
	}
	if flags.Changed("format") {
		cfg.Output.Format = outFormat
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("llm") {
		cfg.LLM.Enabled = llmEnabled
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	return cfg, nil
}

// session is a pipeline plus the resources it holds open
type session struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	logger   zerolog.Logger
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close history store")
		}
	}
}

// openSession builds the pipeline for cfg, opening the history store when
// saving is enabled
func openSession(ctx context.Context, cfg *model.Config, stages pipeline.Stages, extra ...pipeline.Option) (*session, error) {
	s := &session{logger: newLogger()}

	opts := []pipeline.Option{
		pipeline.WithLogger(s.logger),
		pipeline.WithStages(stages),
	}
	if verbose {
		opts = append(opts, pipeline.WithProgress(func(p float64) {
			s.logger.Debug().Float64("progress", p).Msg("ocr")
		}))
	}

	if stages.Save {
		st, err := store.Open(ctx, util.ExpandHome(cfg.Store.Path))
		if err != nil {
			return nil, err
		}
		s.store = st
		opts = append(opts, pipeline.WithStore(st))
	}

	p, err := pipeline.New(ctx, cfg, append(opts, extra...)...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.pipeline = p
	return s, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
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

	renderer := pipeline.NewRenderer()
	failed := 0
	for i, input := range args {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Parsing %s\n", input)
		}

		report, err := s.pipeline.Parse(ctx, input, os.Stdin)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", input, err)
			continue
		}
		if err := s.pipeline.Finish(ctx, report); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", input, err)
		}

		if i > 0 && cfg.Output.Format != "json" {
			fmt.Println(strings.Repeat("─", 40))
		}
		if err := renderer.Render(os.Stdout, report, cfg.Output.Format); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		printWeaponHint(s, report)

		if cfg.Output.Dir != "" {
			if err := writeReportFiles(renderer, report, cfg.Output.Dir, reportSlug(report)); err != nil {
				return err
			}
		}
		if verbose && report.ID != "" {
			fmt.Fprintf(os.Stderr, "✓ Saved as %s\n", report.ID)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(args))
	}
	return nil
}

// printWeaponHint lists close vocabulary names when the weapon line did not
// match any known weapon
func printWeaponHint(s *session, report *model.Report) {
	weapon := report.Record.Weapon()
	if weapon == "" {
		return
	}
	v := s.pipeline.Vocabulary()
	if _, ok := v.FindWeapon(weapon); ok {
		return
	}
	suggestions := v.Suggest(weapon, 3, 0.8)
	if len(suggestions) == 0 {
		return
	}
	names := make([]string, len(suggestions))
	for i, sg := range suggestions {
		names[i] = sg.Name
	}
	fmt.Fprintf(os.Stderr, "⚠️  Unknown weapon %q. Did you mean: %s?\n", weapon, strings.Join(names, ", "))
}

// writeReportFiles writes <slug>.json and <slug>.md into dir
func writeReportFiles(r *pipeline.Renderer, report *model.Report, dir, slug string) error {
	if err := r.RenderJSON(report, filepath.Join(dir, slug+".json")); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	if err := r.RenderMarkdown(report, filepath.Join(dir, slug+".md")); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

// reportSlug names report files after the input, falling back to the weapon
func reportSlug(report *model.Report) string {
	base := report.Source
	if base == "" || base == "-" {
		base = report.Record.Weapon()
		if report.Names.Recommended != "" {
			base += " " + report.Names.Recommended
		}
	}
	if base == "" {
		base = "report"
	}
	return sanitizeFilename(strings.TrimSuffix(filepath.Base(base), filepath.Ext(base)))
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." || s == ".." {
		return "report"
	}
	return s
}
