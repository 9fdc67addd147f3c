// Package riven assembles a structured riven record from OCR text.
package riven

import (
	"strings"

	"github.com/ppiankov/rivenscan/internal/extract"
	"github.com/ppiankov/rivenscan/internal/match"
	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/validate"
	"github.com/ppiankov/rivenscan/internal/vocab"
	"github.com/rs/zerolog"
)

// Stage is a step of the assembly state machine
type Stage int

const (
	StageStart Stage = iota
	StageWeaponResolved
	StageStatsExtracted
	StageStatsMatched
	StageFooterResolved
	StageValidated
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageWeaponResolved:
		return "weapon_resolved"
	case StageStatsExtracted:
		return "stats_extracted"
	case StageStatsMatched:
		return "stats_matched"
	case StageFooterResolved:
		return "footer_resolved"
	case StageValidated:
		return "validated"
	}
	return "unknown"
}

// Parser turns OCR text into a RivenRecord. It never fails: missing pieces
// are left nil and reported by validation.
type Parser struct {
	weapons    *match.WeaponIdentifier
	attributes *match.AttributeMatcher
	stats      *extract.StatExtractor
	footer     *extract.FooterExtractor
	maxStats   int
	logger     zerolog.Logger
}

// Option configures a Parser
type Option func(*parserOptions)

type parserOptions struct {
	config model.ParserConfig
	logger zerolog.Logger
}

// WithConfig overrides the tuned parsing constants
func WithConfig(cfg model.ParserConfig) Option {
	return func(o *parserOptions) {
		o.config = cfg
	}
}

// WithLogger traces stage transitions at debug level
func WithLogger(l zerolog.Logger) Option {
	return func(o *parserOptions) {
		o.logger = l
	}
}

// NewParser creates a parser over the given vocabularies
func NewParser(v *vocab.Vocabulary, opts ...Option) *Parser {
	o := parserOptions{
		config: model.DefaultParserConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if v == nil {
		v = &vocab.Vocabulary{}
	}

	return &Parser{
		weapons:    match.NewWeaponIdentifier(v.Weapons, o.config.WeaponScanLines),
		attributes: match.NewAttributeMatcher(v.Attributes, o.config.InclusionRatio),
		stats:      extract.NewStatExtractorWithLimit(o.config.MaxStatNameLength),
		footer:     extract.NewFooterExtractor(o.config.MaxMastery),
		maxStats:   o.config.MaxStats,
		logger:     o.logger,
	}
}

// assembly carries one parse through the stages
type assembly struct {
	stage  Stage
	text   string
	lines  []string
	record model.RivenRecord
	result model.ValidationResult
}

type step struct {
	to  Stage
	run func(*assembly)
}

// Parse assembles a record from text
func (p *Parser) Parse(text string) model.RivenRecord {
	record, _ := p.ParseAndValidate(text)
	return record
}

// ParseAndValidate assembles a record and its advisory validation
func (p *Parser) ParseAndValidate(text string) (model.RivenRecord, model.ValidationResult) {
	a := &assembly{
		stage: StageStart,
		text:  text,
		lines: splitLines(text),
		record: model.RivenRecord{
			Stats:   []model.Stat{},
			RawText: text,
		},
	}

	steps := []step{
		{StageWeaponResolved, p.resolveWeapon},
		{StageStatsExtracted, p.extractStats},
		{StageStatsMatched, p.matchStats},
		{StageFooterResolved, p.resolveFooter},
		{StageValidated, p.validate},
	}

	for _, s := range steps {
		s.run(a)
		p.logger.Debug().
			Str("from", a.stage.String()).
			Str("to", s.to.String()).
			Msg("riven assembly transition")
		a.stage = s.to
	}

	return a.record, a.result
}

func (p *Parser) resolveWeapon(a *assembly) {
	if name, ok := p.weapons.Identify(a.lines); ok {
		a.record.WeaponName = &name
	}
}

func (p *Parser) extractStats(a *assembly) {
	if stats := p.stats.Extract(a.text); stats != nil {
		a.record.Stats = stats
	}
}

// matchStats attaches vocabulary attributes and flips inverted attributes,
// whose positive magnitude is detrimental
func (p *Parser) matchStats(a *assembly) {
	for i := range a.record.Stats {
		stat := &a.record.Stats[i]
		attr, _, ok := p.attributes.Match(stat.Name)
		if !ok {
			continue
		}
		stat.MatchedAttribute = &attr
		if attr.Inverted() {
			stat.Type = flip(stat.Type)
		}
	}
}

func (p *Parser) resolveFooter(a *assembly) {
	a.record.Mastery = extract.ExtractMastery(a.text)
	a.record.Rolls = extract.ExtractRolls(a.text)
	a.record.Polarity = extract.ExtractPolarity(a.text)

	if a.record.Mastery != nil && a.record.Rolls != nil {
		return
	}
	mastery, rolls := p.footer.Extract(a.lines)
	if a.record.Mastery == nil {
		a.record.Mastery = mastery
	}
	if a.record.Rolls == nil {
		a.record.Rolls = rolls
	}
}

func (p *Parser) validate(a *assembly) {
	a.result = validate.RecordWithLimit(&a.record, p.maxStats)
}

func flip(t model.StatType) model.StatType {
	if t == model.StatPositive {
		return model.StatNegative
	}
	return model.StatPositive
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Parse is a convenience wrapper building a parser per call
func Parse(text string, weapons []model.WeaponRef, attributes []model.AttributeRef) model.RivenRecord {
	return NewParser(&vocab.Vocabulary{Weapons: weapons, Attributes: attributes}).Parse(text)
}
