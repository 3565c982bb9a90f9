package models

// PriceUpdate is the payload published on the live price channel.
type PriceUpdate struct {
	CoinID    string  `json:"id"`
	Currency  string  `json:"c"`
	Price     float64 `json:"p"`
	MarketCap float64 `json:"mc,omitempty"`
	Volume24h float64 `json:"v,omitempty"`
	Change24h float64 `json:"ch,omitempty"`
}
