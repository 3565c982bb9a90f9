package service_test

import (
	"context"
	"testing"
	"time"

	"crypto-analyst-bot/internal/market/coingecko"
	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	markets  []coingecko.MarketCoin
	trending []coingecko.TrendingItem
	candles  []coingecko.Candle
}

func (f *fakeFetcher) Markets(ctx context.Context, currency string, perPage int) ([]coingecko.MarketCoin, error) {
	return f.markets, nil
}

func (f *fakeFetcher) Trending(ctx context.Context) ([]coingecko.TrendingItem, error) {
	return f.trending, nil
}

func (f *fakeFetcher) OHLC(ctx context.Context, coinID, currency string, days int) ([]coingecko.Candle, error) {
	return f.candles, nil
}

func TestSyncMarkets(t *testing.T) {
	testDB := setupTestDB(t)
	coinsRepo := repository.NewCoinsRepository(testDB)

	fetcher := &fakeFetcher{
		markets: []coingecko.MarketCoin{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 50000, MarketCap: 1e12, LastUpdated: time.Now()},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000, MarketCap: 4e11, LastUpdated: time.Now()},
		},
	}
	market := service.NewMarket(coinsRepo, fetcher, "usd", 100, discardLogger())
	ctx := context.Background()

	require.NoError(t, market.SyncMarkets(ctx))

	coin, err := coinsRepo.GetCoin("bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", coin.Name)

	price, err := coinsRepo.GetPrice("bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Price.Equal(decimal.NewFromInt(50000)))

	// A second cycle with a new price must update in place.
	fetcher.markets[0].CurrentPrice = 52000
	require.NoError(t, market.SyncMarkets(ctx))

	price, err = coinsRepo.GetPrice("bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Price.Equal(decimal.NewFromInt(52000)))

	var count int64
	require.NoError(t, testDB.Model(&models.CoinPrice{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSyncTrending(t *testing.T) {
	testDB := setupTestDB(t)
	coinsRepo := repository.NewCoinsRepository(testDB)

	fetcher := &fakeFetcher{
		trending: []coingecko.TrendingItem{
			{ID: "pepe", Symbol: "pepe", Name: "Pepe", MarketCapRank: 40, Score: 0.95, Thumb: "https://example.com/pepe.png"},
		},
	}
	market := service.NewMarket(coinsRepo, fetcher, "usd", 100, discardLogger())
	ctx := context.Background()

	require.NoError(t, market.SyncTrending(ctx))
	require.NoError(t, market.SyncTrending(ctx), "repeat sync must not duplicate rows")

	trending, err := coinsRepo.ListTrending()
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, "pepe", trending[0].CoinID)

	// Parent coin row must exist even if the markets page never saw it.
	_, err = coinsRepo.GetCoin("pepe")
	require.NoError(t, err)
}

func TestSyncOHLC(t *testing.T) {
	testDB := setupTestDB(t)
	coinsRepo := repository.NewCoinsRepository(testDB)

	ts := time.Now().Truncate(time.Hour)
	fetcher := &fakeFetcher{
		candles: []coingecko.Candle{
			{float64(ts.UnixMilli()), 3000, 3100, 2900, 3050},
			{float64(ts.Add(4 * time.Hour).UnixMilli()), 3050, 3300, 3000, 3200},
		},
	}
	market := service.NewMarket(coinsRepo, fetcher, "usd", 100, discardLogger())
	ctx := context.Background()

	require.NoError(t, coinsRepo.UpsertCoin(&models.Coin{ID: "ethereum", Symbol: "eth", Name: "Ethereum"}))
	require.NoError(t, market.SyncOHLC(ctx, "ethereum", models.Interval30Days))

	candles, err := coinsRepo.ListOHLC("ethereum", models.Interval30Days)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))
	assert.True(t, candles[1].Close.Equal(decimal.NewFromInt(3200)))
}

func TestApplyPriceUpdate(t *testing.T) {
	testDB := setupTestDB(t)
	coinsRepo := repository.NewCoinsRepository(testDB)
	market := service.NewMarket(coinsRepo, &fakeFetcher{}, "usd", 100, discardLogger())
	ctx := context.Background()

	require.NoError(t, coinsRepo.UpsertCoin(&models.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}))

	require.NoError(t, market.ApplyPriceUpdate(ctx, models.PriceUpdate{CoinID: "bitcoin", Price: 49000}))

	price, err := coinsRepo.GetPrice("bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Price.Equal(decimal.NewFromInt(49000)))

	// Updates for coins the store has never seen are dropped silently.
	require.NoError(t, market.ApplyPriceUpdate(ctx, models.PriceUpdate{CoinID: "unknowncoin", Price: 1}))
	_, err = coinsRepo.GetPrice("unknowncoin", "usd")
	assert.Error(t, err)
}
