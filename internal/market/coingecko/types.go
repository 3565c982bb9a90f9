package coingecko

import "time"

type MarketCoin struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	CurrentPrice             float64   `json:"current_price"`
	MarketCap                float64   `json:"market_cap"`
	TotalVolume              float64   `json:"total_volume"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	LastUpdated              time.Time `json:"last_updated"`
}

type TrendingItem struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	MarketCapRank int     `json:"market_cap_rank"`
	Score         float64 `json:"score"`
	Thumb         string  `json:"thumb"`
}

type trendingEntry struct {
	Item TrendingItem `json:"item"`
}

type trendingResponse struct {
	Coins []trendingEntry `json:"coins"`
}

// Candle is one OHLC row as CoinGecko returns it:
// [timestamp_ms, open, high, low, close].
type Candle [5]float64

func (c Candle) Time() time.Time { return time.UnixMilli(int64(c[0])) }
func (c Candle) Open() float64   { return c[1] }
func (c Candle) High() float64   { return c[2] }
func (c Candle) Low() float64    { return c[3] }
func (c Candle) Close() float64  { return c[4] }
