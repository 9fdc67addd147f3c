package model

// AuctionQuery is one relaxation variant of a similar-riven market search
type AuctionQuery struct {
	Label  string            `json:"label"`
	Params map[string]string `json:"params"`

	// Set on substitution variants: the record's attribute and its stand-in
	Removed string `json:"removed,omitempty"`
	Added   string `json:"added,omitempty"`
}

// Auction is one riven listing returned by the market
type Auction struct {
	ID            string       `json:"id"`
	BuyoutPrice   *int         `json:"buyout_price"`
	StartingPrice int          `json:"starting_price"`
	Platform      string       `json:"platform"`
	Item          AuctionItem  `json:"item"`
	Owner         AuctionOwner `json:"owner"`
}

// AuctionItem is the riven being sold
type AuctionItem struct {
	Type          string             `json:"type"`
	WeaponURLName string             `json:"weapon_url_name"`
	Name          string             `json:"name"`
	MasteryLevel  int                `json:"mastery_level"`
	ReRolls       int                `json:"re_rolls"`
	Polarity      string             `json:"polarity"`
	ModRank       int                `json:"mod_rank"`
	Attributes    []AuctionAttribute `json:"attributes"`
}

// AuctionAttribute is one stat of a listed riven
type AuctionAttribute struct {
	URLName  string  `json:"url_name"`
	Value    float64 `json:"value"`
	Positive bool    `json:"positive"`
}

// AuctionOwner identifies the seller
type AuctionOwner struct {
	IngameName string `json:"ingame_name"`
	Status     string `json:"status"`
}

// SearchResult pairs a query with the listings it returned
type SearchResult struct {
	Query    AuctionQuery `json:"query"`
	Auctions []Auction    `json:"auctions"`
	Error    string       `json:"error,omitempty"`
}
