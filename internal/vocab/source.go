package vocab

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

const (
	SourceBuiltin = "builtin"
	SourceMarket  = "market"
)

// Fetcher retrieves live vocabularies, typically the trading API client
type Fetcher interface {
	RivenItems(ctx context.Context) ([]model.WeaponRef, error)
	RivenAttributes(ctx context.Context) ([]model.AttributeRef, error)
}

// Resolve returns the vocabulary named by source: "builtin" (or empty),
// "market", or a path to a YAML/JSON file
func Resolve(ctx context.Context, source string, f Fetcher) (*Vocabulary, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", SourceBuiltin:
		return Builtin(), nil
	case SourceMarket:
		if f == nil {
			return nil, fmt.Errorf("market vocabulary requested without a client")
		}
		return FromFetcher(ctx, f)
	default:
		return LoadFile(source)
	}
}

// FromFetcher loads both vocabularies from f
func FromFetcher(ctx context.Context, f Fetcher) (*Vocabulary, error) {
	weapons, err := f.RivenItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch riven items: %w", err)
	}
	attributes, err := f.RivenAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch riven attributes: %w", err)
	}
	return &Vocabulary{Weapons: weapons, Attributes: attributes}, nil
}
