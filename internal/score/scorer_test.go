package score

import (
	"math"
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
)

func record(positives ...string) *model.RivenRecord {
	r := &model.RivenRecord{WeaponName: model.Ptr("Soma")}
	for _, p := range positives {
		r.Stats = append(r.Stats, model.Stat{
			Type:             model.StatPositive,
			Value:            100,
			MatchedAttribute: &model.AttributeRef{URLName: p},
		})
	}
	return r
}

func auction(id string, price int, positives ...string) model.Auction {
	a := model.Auction{ID: id}
	if price > 0 {
		a.BuyoutPrice = model.Ptr(price)
	}
	for _, p := range positives {
		a.Item.Attributes = append(a.Item.Attributes, model.AuctionAttribute{URLName: p, Value: 50, Positive: true})
	}
	a.Item.Attributes = append(a.Item.Attributes, model.AuctionAttribute{URLName: "zoom", Value: -20})
	return a
}

var valid = model.ValidationResult{IsValid: true, Errors: []string{}}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestCalculate_NoListings(t *testing.T) {
	est := NewScorer().Calculate(record("multishot", "damage"), valid, nil)

	if est.Index != 0 {
		t.Errorf("Expected index 0, got %d", est.Index)
	}
	if est.SuggestedPrice != nil {
		t.Errorf("Expected no suggested price, got %d", *est.SuggestedPrice)
	}
	if est.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", est.Confidence)
	}
	count := findSignal(est.Signals, model.SignalComparableCount)
	if count == nil || count.Severity != model.SeverityCritical {
		t.Errorf("Expected critical count signal, got %+v", count)
	}
	if findSignal(est.Signals, model.SignalPriceSpread) != nil {
		t.Error("Expected no spread signal without prices")
	}
}

func TestCalculate_ExactMatches(t *testing.T) {
	results := []model.SearchResult{
		{Auctions: []model.Auction{
			auction("a", 100, "multishot", "damage"),
			auction("b", 200, "multishot", "damage"),
			auction("c", 300, "multishot", "damage"),
		}},
		// a repeats across variants
		{Auctions: []model.Auction{auction("a", 100, "multishot", "damage")}},
	}

	est := NewScorer().Calculate(record("multishot", "damage"), valid, results)

	// overlap 1.0 * 60 + 3 listings * 4
	if est.Index != 72 {
		t.Errorf("Expected index 72, got %d", est.Index)
	}
	if est.SuggestedPrice == nil || *est.SuggestedPrice != 200 {
		t.Errorf("Expected median 200, got %v", est.SuggestedPrice)
	}
	if est.Confidence != "medium" {
		t.Errorf("Expected medium confidence, got %s", est.Confidence)
	}

	spread := findSignal(est.Signals, model.SignalPriceSpread)
	if spread == nil || spread.Data["min"] != 100 || spread.Data["max"] != 300 {
		t.Errorf("Unexpected spread signal %+v", spread)
	}
	if r := spread.Data["ratio"].(float64); math.Abs(r-1.0) > 1e-9 {
		t.Errorf("Expected ratio 1.0, got %v", r)
	}
}

func TestCalculate_PrefersCloseListingsForPrice(t *testing.T) {
	results := []model.SearchResult{{Auctions: []model.Auction{
		auction("close1", 400, "multishot", "damage"),
		auction("close2", 600, "multishot", "damage", "heat_damage"),
		auction("far", 50, "zoom"),
		auction("nobuyout", 0, "multishot", "damage"),
	}}}

	est := NewScorer().Calculate(record("multishot", "damage"), valid, results)
	if est.SuggestedPrice == nil || *est.SuggestedPrice != 500 {
		t.Errorf("Expected 500 from close listings only, got %v", est.SuggestedPrice)
	}
}

func TestCalculate_FallsBackToAllListings(t *testing.T) {
	results := []model.SearchResult{{Auctions: []model.Auction{
		auction("x", 80, "zoom"),
		auction("y", 120, "range"),
	}}}

	est := NewScorer().Calculate(record("multishot"), valid, results)
	if est.SuggestedPrice == nil || *est.SuggestedPrice != 100 {
		t.Errorf("Expected 100 from all listings, got %v", est.SuggestedPrice)
	}
	overlap := findSignal(est.Signals, model.SignalAttributeOverlap)
	if overlap == nil || overlap.Severity != model.SeverityWarning {
		t.Errorf("Expected low-overlap warning, got %+v", overlap)
	}
}

func TestCalculate_IndexCapped(t *testing.T) {
	var auctions []model.Auction
	for i := 0; i < 15; i++ {
		auctions = append(auctions, auction(string(rune('a'+i)), 100, "multishot"))
	}

	est := NewScorer().Calculate(record("multishot"), valid, []model.SearchResult{{Auctions: auctions}})
	if est.Index != 100 {
		t.Errorf("Expected index 100, got %d", est.Index)
	}
	if est.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", est.Confidence)
	}
}

func TestCalculate_InvalidRecordIsLowConfidence(t *testing.T) {
	invalid := model.ValidationResult{IsValid: false, Errors: []string{"Weapon name not found"}}
	var auctions []model.Auction
	for i := 0; i < 10; i++ {
		auctions = append(auctions, auction(string(rune('a'+i)), 100, "multishot"))
	}

	est := NewScorer().Calculate(record("multishot"), invalid, []model.SearchResult{{Auctions: auctions}})
	if est.Confidence != "low" {
		t.Errorf("Expected low confidence for invalid record, got %s", est.Confidence)
	}
	pq := findSignal(est.Signals, model.SignalParseQuality)
	if pq == nil || pq.Severity != model.SeverityCritical {
		t.Errorf("Expected critical parse-quality signal, got %+v", pq)
	}
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true}
	if got := jaccard(a, b); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("Expected 1/3, got %v", got)
	}
	if got := jaccard(map[string]bool{}, map[string]bool{}); got != 0 {
		t.Errorf("Expected 0 for empty sets, got %v", got)
	}
}
