package bot

import (
	"context"
	"fmt"
	"strings"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
)

// StoreAnalyzer answers analysis commands from the synced market tables.
// Charting and news rendering live in the external analysis service; this
// covers the data the store already has.
type StoreAnalyzer struct {
	coinsRepo repository.CoinsRepository
	currency  string
}

func NewStoreAnalyzer(coinsRepo repository.CoinsRepository, currency string) *StoreAnalyzer {
	return &StoreAnalyzer{
		coinsRepo: coinsRepo,
		currency:  currency,
	}
}

func (a *StoreAnalyzer) Handle(ctx context.Context, user *models.User, command, query string) (string, error) {
	coin, err := a.coinsRepo.FindCoin(query)
	if err != nil {
		return fmt.Sprintf("I couldn't find %q. Try the full CoinGecko id, e.g. \"bitcoin\".", query), nil
	}

	switch command {
	case CommandChart:
		return a.chartSummary(coin, user)
	case CommandNews:
		return fmt.Sprintf("News for %s isn't available right now.", coin.Name), nil
	default:
		return a.priceSummary(coin)
	}
}

func (a *StoreAnalyzer) priceSummary(coin *models.Coin) (string, error) {
	price, err := a.coinsRepo.GetPrice(coin.ID, a.currency)
	if err != nil {
		return fmt.Sprintf("No price data for %s yet, try again in a minute.", coin.Name), nil
	}

	text := fmt.Sprintf("%s (%s)\nPrice: %s %s\n24h change: %s%%\nMarket cap: %s",
		coin.Name, strings.ToUpper(coin.Symbol),
		price.Price.StringFixed(4), strings.ToUpper(price.Currency),
		price.Change24h.StringFixed(2),
		price.MarketCap.StringFixed(0))

	trending, err := a.coinsRepo.ListTrending()
	if err == nil {
		for _, t := range trending {
			if t.CoinID == coin.ID {
				text += fmt.Sprintf("\nTrending rank: #%d", t.Rank)
				break
			}
		}
	}

	return text, nil
}

func (a *StoreAnalyzer) chartSummary(coin *models.Coin, user *models.User) (string, error) {
	interval := models.OHLCInterval(user.PreferredTimeframe)
	candles, err := a.coinsRepo.ListOHLC(coin.ID, interval)
	if err != nil {
		return "", err
	}
	if len(candles) == 0 {
		return fmt.Sprintf("No chart data for %s over %d days yet.", coin.Name, interval), nil
	}

	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.High.GreaterThan(high) {
			high = c.High
		}
		if c.Low.LessThan(low) {
			low = c.Low
		}
	}
	last := candles[len(candles)-1]

	return fmt.Sprintf("%s, last %d days (%d candles)\nHigh: %s\nLow: %s\nLast close: %s",
		coin.Name, interval, len(candles),
		high.StringFixed(4), low.StringFixed(4), last.Close.StringFixed(4)), nil
}
