// Package score estimates a riven's market position from comparable listings.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/rivenscan/internal/model"
)

const (
	overlapWeight   = 60
	countWeight     = 4
	countCap        = 10
	closeOverlap    = 0.5
	wideSpreadRatio = 1.0
	minComparables  = 3
	highIndex       = 80
	mediumIndex     = 60
)

// Scorer computes the comparable-listing estimate. It is advisory only:
// the parsed record is never changed by it.
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

type listing struct {
	auction model.Auction
	overlap float64
}

// Calculate scores the listings returned for a record's query variants
func (s *Scorer) Calculate(record *model.RivenRecord, validation model.ValidationResult, results []model.SearchResult) model.Estimate {
	listings := s.comparables(record, results)

	var signals []model.Signal
	signals = append(signals, s.countSignal(len(listings)))

	meanOverlap, overlapSignal := s.overlapSignal(listings)
	signals = append(signals, overlapSignal)

	if spread, ok := s.spreadSignal(listings); ok {
		signals = append(signals, spread)
	}
	signals = append(signals, s.parseQualitySignal(validation))

	count := len(listings)
	if count > countCap {
		count = countCap
	}
	index := int(math.Round(meanOverlap*overlapWeight)) + count*countWeight
	if index > 100 {
		index = 100
	}

	return model.Estimate{
		Index:          index,
		Confidence:     s.confidence(index, len(listings), validation.IsValid),
		SuggestedPrice: s.suggestedPrice(listings),
		Signals:        signals,
	}
}

// comparables flattens results, dropping listings seen in earlier variants
func (s *Scorer) comparables(record *model.RivenRecord, results []model.SearchResult) []listing {
	wanted := positiveSet(record)
	seen := make(map[string]bool)

	var out []listing
	for _, r := range results {
		for _, a := range r.Auctions {
			if a.ID != "" {
				if seen[a.ID] {
					continue
				}
				seen[a.ID] = true
			}
			out = append(out, listing{auction: a, overlap: jaccard(wanted, listingPositives(a))})
		}
	}
	return out
}

func (s *Scorer) countSignal(n int) model.Signal {
	severity := model.SeverityInfo
	switch {
	case n == 0:
		severity = model.SeverityCritical
	case n < minComparables:
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalComparableCount,
		Severity:    severity,
		Description: fmt.Sprintf("%d comparable listings", n),
		Data: map[string]interface{}{
			"count":  n,
			"capped": min(n, countCap),
			"points": min(n, countCap) * countWeight,
		},
	}
}

func (s *Scorer) overlapSignal(listings []listing) (float64, model.Signal) {
	if len(listings) == 0 {
		return 0, model.Signal{
			Type:        model.SignalAttributeOverlap,
			Severity:    model.SeverityWarning,
			Description: "No listings to compare attributes with",
			Data:        map[string]interface{}{"mean": 0.0, "points": 0},
		}
	}

	total := 0.0
	nearby := 0
	for _, l := range listings {
		total += l.overlap
		if l.overlap >= closeOverlap {
			nearby++
		}
	}
	mean := total / float64(len(listings))

	severity := model.SeverityInfo
	if mean < closeOverlap {
		severity = model.SeverityWarning
	}
	return mean, model.Signal{
		Type:        model.SignalAttributeOverlap,
		Severity:    severity,
		Description: fmt.Sprintf("Mean positive-attribute overlap: %.2f", mean),
		Data: map[string]interface{}{
			"mean":   mean,
			"close":  nearby,
			"points": int(math.Round(mean * overlapWeight)),
		},
	}
}

func (s *Scorer) spreadSignal(listings []listing) (model.Signal, bool) {
	prices := buyouts(listings, 0)
	if len(prices) == 0 {
		return model.Signal{}, false
	}

	lo, hi := prices[0], prices[len(prices)-1]
	med := median(prices)
	ratio := 0.0
	if med > 0 {
		ratio = float64(hi-lo) / float64(med)
	}

	severity := model.SeverityInfo
	if ratio > wideSpreadRatio {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalPriceSpread,
		Severity:    severity,
		Description: fmt.Sprintf("Buyouts range %d-%d platinum", lo, hi),
		Data: map[string]interface{}{
			"min":    lo,
			"max":    hi,
			"median": med,
			"ratio":  ratio,
		},
	}, true
}

func (s *Scorer) parseQualitySignal(v model.ValidationResult) model.Signal {
	if v.IsValid {
		return model.Signal{
			Type:        model.SignalParseQuality,
			Severity:    model.SeverityInfo,
			Description: "Record passed validation",
		}
	}
	return model.Signal{
		Type:        model.SignalParseQuality,
		Severity:    model.SeverityCritical,
		Description: fmt.Sprintf("Record has %d validation errors", len(v.Errors)),
		Data:        map[string]interface{}{"errors": v.Errors},
	}
}

// suggestedPrice is the median buyout of close listings, or of all listings
// when none is close
func (s *Scorer) suggestedPrice(listings []listing) *int {
	prices := buyouts(listings, closeOverlap)
	if len(prices) == 0 {
		prices = buyouts(listings, 0)
	}
	if len(prices) == 0 {
		return nil
	}
	p := median(prices)
	return &p
}

func (s *Scorer) confidence(index, count int, valid bool) string {
	if !valid || count < minComparables {
		return "low"
	}
	if index >= highIndex {
		return "high"
	}
	if index >= mediumIndex {
		return "medium"
	}
	return "low"
}

func positiveSet(record *model.RivenRecord) map[string]bool {
	set := make(map[string]bool)
	if record == nil {
		return set
	}
	for _, st := range record.PositiveStats() {
		if st.MatchedAttribute != nil {
			set[st.MatchedAttribute.URLName] = true
		}
	}
	return set
}

func listingPositives(a model.Auction) map[string]bool {
	set := make(map[string]bool)
	for _, attr := range a.Item.Attributes {
		if attr.Positive {
			set[attr.URLName] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// buyouts returns the sorted positive buyout prices of listings whose
// overlap is at least minOverlap
func buyouts(listings []listing, minOverlap float64) []int {
	var prices []int
	for _, l := range listings {
		if l.overlap < minOverlap {
			continue
		}
		if p := l.auction.BuyoutPrice; p != nil && *p > 0 {
			prices = append(prices, *p)
		}
	}
	sort.Ints(prices)
	return prices
}

func median(sorted []int) int {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
