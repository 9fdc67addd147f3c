// Package pipeline wires OCR, parsing, naming, market search, estimation and
// history into the end-to-end rivenscan flow.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/rivenscan/internal/cache"
	"github.com/ppiankov/rivenscan/internal/extract"
	"github.com/ppiankov/rivenscan/internal/imageproc"
	"github.com/ppiankov/rivenscan/internal/llm"
	"github.com/ppiankov/rivenscan/internal/market"
	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/naming"
	"github.com/ppiankov/rivenscan/internal/ocr"
	"github.com/ppiankov/rivenscan/internal/query"
	"github.com/ppiankov/rivenscan/internal/riven"
	"github.com/ppiankov/rivenscan/internal/score"
	"github.com/ppiankov/rivenscan/internal/store"
	"github.com/ppiankov/rivenscan/internal/util"
	"github.com/ppiankov/rivenscan/internal/vocab"
	"github.com/ppiankov/rivenscan/internal/worker"
	"github.com/rs/zerolog"
)

// MarketClient is the subset of the market client the pipeline uses
type MarketClient interface {
	vocab.Fetcher
	worker.Searcher
}

// Stages selects the optional steps after parsing
type Stages struct {
	Search   bool // Query the market and estimate a price
	Describe bool // Generate a listing description
	Save     bool // Record the report in the history store
}

// Pipeline orchestrates the complete parse process
type Pipeline struct {
	config *model.Config
	logger zerolog.Logger
	stages Stages

	vocab     *vocab.Vocabulary
	parser    *riven.Parser
	cleaner   *extract.Cleaner
	names     *naming.Generator
	queries   *query.Builder
	market    MarketClient
	searcher  *worker.SearchRunner
	scorer    *score.Scorer
	describer *llm.Describer
	store     *store.Store
	fetcher   *Fetcher
	pre       *imageproc.Preprocessor

	engineMu sync.Mutex
	engine   ocr.Engine
	progress ocr.ProgressFunc

	now func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStages enables optional steps
func WithStages(s Stages) Option {
	return func(p *Pipeline) { p.stages = s }
}

// WithVocabulary skips vocabulary resolution
func WithVocabulary(v *vocab.Vocabulary) Option {
	return func(p *Pipeline) { p.vocab = v }
}

// WithMarket replaces the market client
func WithMarket(m MarketClient) Option {
	return func(p *Pipeline) { p.market = m }
}

// WithEngine replaces the configured OCR engine
func WithEngine(e ocr.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// WithStore records reports in s when the Save stage is enabled
func WithStore(s *store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithProgress receives OCR progress
func WithProgress(fn ocr.ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// New creates a pipeline. The vocabulary is resolved eagerly; the OCR engine
// is created on first image.
func New(ctx context.Context, cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		config:  cfg,
		logger:  zerolog.Nop(),
		cleaner: extract.NewCleaner(),
		names:   naming.NewGenerator(naming.DefaultBaseValues()),
		queries: query.NewBuilder(cfg.Market),
		scorer:  score.NewScorer(),
		fetcher: NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.Proxy),
		pre:     imageproc.New(cfg.Preprocess),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.market == nil {
		p.market = NewMarketClient(cfg, p.logger)
	}
	if p.vocab == nil {
		v, err := vocab.Resolve(ctx, cfg.Parser.Vocabulary, p.market)
		if err != nil {
			return nil, fmt.Errorf("resolve vocabulary: %w", err)
		}
		p.vocab = v
	}
	p.parser = riven.NewParser(p.vocab, riven.WithConfig(cfg.Parser), riven.WithLogger(p.logger))
	p.searcher = worker.NewSearchRunner(p.market, cfg.Market, p.logger)

	if p.stages.Describe {
		d, err := llm.NewDescriber(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), p.logger)
		if err != nil {
			return nil, fmt.Errorf("create describer: %w", err)
		}
		p.describer = d
	}
	return p, nil
}

// NewMarketClient builds the market client with the layered cache when
// caching is enabled
func NewMarketClient(cfg *model.Config, logger zerolog.Logger) *market.Client {
	opts := []market.Option{market.WithLogger(logger)}
	if cfg.Cache.Enabled {
		dir := util.ExpandHome(cfg.Cache.Dir)
		opts = append(opts, market.WithCache(cache.NewLayeredCache(cfg.Cache.SearchTTL, dir, cfg.Cache.VocabTTL)))
	}
	return market.NewClient(cfg, opts...)
}

// Vocabulary returns the resolved vocabulary
func (p *Pipeline) Vocabulary() *vocab.Vocabulary {
	return p.vocab
}

// ProcessText parses OCR text into a report
func (p *Pipeline) ProcessText(source, text string) *model.Report {
	record, validation := p.parser.ParseAndValidate(text)

	report := &model.Report{
		Source:     source,
		ParsedAt:   p.now().UTC(),
		Record:     record,
		Validation: validation,
	}
	if wt, ok := p.vocab.WeaponType(record.Weapon()); ok {
		report.WeaponType = wt
	}
	report.Names = p.names.Generate(record.Stats, report.WeaponType)

	p.logger.Debug().
		Str("source", source).
		Str("weapon", record.Weapon()).
		Int("stats", len(record.Stats)).
		Bool("valid", validation.IsValid).
		Msg("parsed riven")
	return report
}

// ProcessImage runs preprocessing and OCR on encoded image bytes, then parses
// the cleaned text
func (p *Pipeline) ProcessImage(ctx context.Context, source string, data []byte) (*model.Report, error) {
	img, err := imageproc.Decode(data)
	if err != nil {
		return nil, err
	}

	meta := &model.OCRMeta{Preprocessed: p.config.Preprocess.Enabled}
	if p.config.Preprocess.Enabled {
		prepared := p.pre.Process(img)
		if data, err = imageproc.EncodePNG(prepared); err != nil {
			return nil, err
		}
		img = prepared
	}
	meta.Width, meta.Height = img.Bounds().Dx(), img.Bounds().Dy()

	engine, err := p.ocrEngine()
	if err != nil {
		return nil, err
	}
	opts := append(ocr.OptionsFromConfig(p.config.OCR), ocr.WithProgress(p.progress))
	res, err := engine.Recognize(ctx, ocr.NewInput(source, data, opts...))
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", source, err)
	}
	meta.Engine = engine.Name()
	meta.Confidence = res.Confidence

	text := res.Text
	if p.config.Parser.CleanText {
		text = p.cleaner.Clean(text)
	}
	report := p.ProcessText(source, text)
	report.OCR = meta
	return report, nil
}

func (p *Pipeline) ocrEngine() (ocr.Engine, error) {
	p.engineMu.Lock()
	defer p.engineMu.Unlock()
	if p.engine == nil {
		e, err := ocr.NewEngine(p.config.OCR.Engine)
		if err != nil {
			return nil, err
		}
		p.engine = e
	}
	return p.engine, nil
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImage reports whether path looks like an image by extension
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Parse turns one input into a report without the optional stages. Input is
// an image path, an image URL, a text file, or "-" for text on stdin.
func (p *Pipeline) Parse(ctx context.Context, input string, stdin io.Reader) (*model.Report, error) {
	switch {
	case input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return p.ProcessText("-", string(data)), nil

	case IsURL(input):
		res, err := p.fetcher.FetchWithRetry(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", input, err)
		}
		return p.ProcessImage(ctx, input, res.Data)

	case IsImage(input):
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return p.ProcessImage(ctx, input, data)

	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read text: %w", err)
		}
		return p.ProcessText(input, string(data)), nil
	}
}

// ProcessFile parses input and runs the enabled stages. It implements
// worker.Processor for batch runs.
func (p *Pipeline) ProcessFile(ctx context.Context, input string) (*model.Report, error) {
	report, err := p.Parse(ctx, input, os.Stdin)
	if err != nil {
		return nil, err
	}
	if err := p.Finish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// Finish runs the enabled optional stages on a parsed report. Search and
// description failures are logged on the report, not returned; only a
// failed save is an error.
func (p *Pipeline) Finish(ctx context.Context, report *model.Report) error {
	if p.stages.Search {
		p.Search(ctx, report)
	}
	if p.stages.Describe && p.describer.IsEnabled() {
		report.LLM = p.describer.Describe(ctx, *report)
	}
	if p.stages.Save && p.store != nil {
		if _, err := p.store.Save(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	return nil
}

// Search builds relaxed auction queries for the record, runs them, and
// attaches results and the comparable estimate
func (p *Pipeline) Search(ctx context.Context, report *model.Report) {
	queries := p.queries.Build(&report.Record, p.vocab)
	if len(queries) == 0 {
		p.logger.Debug().Str("source", report.Source).Msg("no searchable stats or unknown weapon")
		report.Queries = []model.SearchResult{}
	} else {
		report.Queries = p.searcher.Run(ctx, queries)
	}

	estimate := p.scorer.Calculate(&report.Record, report.Validation, report.Queries)
	report.Estimate = &estimate
}
