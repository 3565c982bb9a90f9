package bot_test

import (
	"context"
	"testing"
	"time"

	"crypto-analyst-bot/internal/bot"
	"crypto-analyst-bot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAnalyzer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	analyzer := bot.NewStoreAnalyzer(f.coinsRepo, "usd")
	user := &models.User{PreferredTimeframe: 30}

	require.NoError(t, f.coinsRepo.UpsertCoin(&models.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}))
	require.NoError(t, f.coinsRepo.UpsertPrice(&models.CoinPrice{
		CoinID:    "bitcoin",
		Currency:  "usd",
		Price:     decimal.NewFromInt(50000),
		Change24h: decimal.NewFromFloat(-1.2),
		MarketCap: decimal.NewFromInt(1_000_000_000),
		Timestamp: time.Now(),
	}))

	t.Run("price_summary_by_symbol", func(t *testing.T) {
		text, err := analyzer.Handle(ctx, user, bot.CommandAnalyze, "BTC")
		require.NoError(t, err)
		assert.Contains(t, text, "Bitcoin")
		assert.Contains(t, text, "50000")
		assert.Contains(t, text, "-1.20")
	})

	t.Run("trending_rank_included_when_present", func(t *testing.T) {
		require.NoError(t, f.coinsRepo.UpsertTrending(&models.TrendingCoin{CoinID: "bitcoin", Rank: 1, Score: 1}))

		text, err := analyzer.Handle(ctx, user, bot.CommandAnalyze, "bitcoin")
		require.NoError(t, err)
		assert.Contains(t, text, "Trending rank: #1")
	})

	t.Run("chart_summary", func(t *testing.T) {
		ts := time.Now().Truncate(time.Hour)
		require.NoError(t, f.coinsRepo.UpsertOHLC(&models.OHLC{
			CoinID: "bitcoin", Timestamp: ts, Interval: models.Interval30Days,
			Open: decimal.NewFromInt(48000), High: decimal.NewFromInt(52000),
			Low: decimal.NewFromInt(47000), Close: decimal.NewFromInt(50000),
		}))
		require.NoError(t, f.coinsRepo.UpsertOHLC(&models.OHLC{
			CoinID: "bitcoin", Timestamp: ts.Add(4 * time.Hour), Interval: models.Interval30Days,
			Open: decimal.NewFromInt(50000), High: decimal.NewFromInt(53000),
			Low: decimal.NewFromInt(49500), Close: decimal.NewFromInt(51000),
		}))

		text, err := analyzer.Handle(ctx, user, bot.CommandChart, "bitcoin")
		require.NoError(t, err)
		assert.Contains(t, text, "2 candles")
		assert.Contains(t, text, "53000")
		assert.Contains(t, text, "47000")
	})

	t.Run("unknown_coin_gets_a_hint", func(t *testing.T) {
		text, err := analyzer.Handle(ctx, user, bot.CommandAnalyze, "notacoin")
		require.NoError(t, err)
		assert.Contains(t, text, "couldn't find")
	})
}
