package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"crypto-analyst-bot/internal/market/coingecko"
	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"

	"github.com/shopspring/decimal"
)

// MarketFetcher is the slice of the CoinGecko client the sync needs.
type MarketFetcher interface {
	Markets(ctx context.Context, currency string, perPage int) ([]coingecko.MarketCoin, error)
	Trending(ctx context.Context) ([]coingecko.TrendingItem, error)
	OHLC(ctx context.Context, coinID, currency string, days int) ([]coingecko.Candle, error)
}

type Market interface {
	SyncMarkets(ctx context.Context) error
	SyncTrending(ctx context.Context) error
	SyncOHLC(ctx context.Context, coinID string, interval models.OHLCInterval) error
	ApplyPriceUpdate(ctx context.Context, update models.PriceUpdate) error
}

type market struct {
	coinsRepo repository.CoinsRepository
	fetcher   MarketFetcher
	currency  string
	pageSize  int
	log       *slog.Logger
}

func NewMarket(coinsRepo repository.CoinsRepository, fetcher MarketFetcher, currency string, pageSize int, log *slog.Logger) Market {
	return &market{
		coinsRepo: coinsRepo,
		fetcher:   fetcher,
		currency:  currency,
		pageSize:  pageSize,
		log:       log,
	}
}

func (s *market) SyncMarkets(ctx context.Context) error {
	coins, err := s.fetcher.Markets(ctx, s.currency, s.pageSize)
	if err != nil {
		return fmt.Errorf("sync markets: %w", err)
	}

	synced := 0
	for _, mc := range coins {
		extra, _ := json.Marshal(map[string]string{"image": mc.Image})

		err := s.coinsRepo.UpsertCoin(&models.Coin{
			ID:          mc.ID,
			Symbol:      mc.Symbol,
			Name:        mc.Name,
			ExtraData:   string(extra),
			LastUpdated: mc.LastUpdated,
		})
		if err != nil {
			s.log.Error("failed to upsert coin", "coin", mc.ID, "error", err)
			continue
		}

		err = s.coinsRepo.UpsertPrice(&models.CoinPrice{
			CoinID:    mc.ID,
			Currency:  s.currency,
			Price:     decimal.NewFromFloat(mc.CurrentPrice),
			MarketCap: decimal.NewFromFloat(mc.MarketCap),
			Volume24h: decimal.NewFromFloat(mc.TotalVolume),
			Change24h: decimal.NewFromFloat(mc.PriceChangePercentage24h),
			Timestamp: mc.LastUpdated,
		})
		if err != nil {
			s.log.Error("failed to upsert price", "coin", mc.ID, "error", err)
			continue
		}

		synced++
	}

	s.log.Info("market sync completed", "fetched", len(coins), "synced", synced)
	return nil
}

func (s *market) SyncTrending(ctx context.Context) error {
	items, err := s.fetcher.Trending(ctx)
	if err != nil {
		return fmt.Errorf("sync trending: %w", err)
	}

	for _, item := range items {
		// Trending entries can reference coins the markets page never
		// returned; make sure the parent row exists without clobbering
		// metadata a full sync already wrote.
		if _, err := s.coinsRepo.GetCoin(item.ID); err != nil {
			err := s.coinsRepo.UpsertCoin(&models.Coin{
				ID:     item.ID,
				Symbol: item.Symbol,
				Name:   item.Name,
			})
			if err != nil {
				s.log.Error("failed to create trending coin", "coin", item.ID, "error", err)
				continue
			}
		}

		err = s.coinsRepo.UpsertTrending(&models.TrendingCoin{
			CoinID: item.ID,
			Rank:   item.MarketCapRank,
			Score:  item.Score,
			Thumb:  item.Thumb,
		})
		if err != nil {
			s.log.Error("failed to upsert trending entry", "coin", item.ID, "error", err)
		}
	}

	s.log.Info("trending sync completed", "count", len(items))
	return nil
}

func (s *market) SyncOHLC(ctx context.Context, coinID string, interval models.OHLCInterval) error {
	candles, err := s.fetcher.OHLC(ctx, coinID, s.currency, int(interval))
	if err != nil {
		return fmt.Errorf("sync ohlc: %w", err)
	}

	for _, candle := range candles {
		err := s.coinsRepo.UpsertOHLC(&models.OHLC{
			CoinID:    coinID,
			Timestamp: candle.Time(),
			Interval:  interval,
			Open:      decimal.NewFromFloat(candle.Open()),
			High:      decimal.NewFromFloat(candle.High()),
			Low:       decimal.NewFromFloat(candle.Low()),
			Close:     decimal.NewFromFloat(candle.Close()),
		})
		if err != nil {
			s.log.Error("failed to upsert candle", "coin", coinID, "error", err)
		}
	}

	return nil
}

// ApplyPriceUpdate folds a live feed message into the price table. Updates
// for unknown coins are dropped; the next full sync will pick them up.
func (s *market) ApplyPriceUpdate(ctx context.Context, update models.PriceUpdate) error {
	if _, err := s.coinsRepo.GetCoin(update.CoinID); err != nil {
		s.log.Debug("price update for unknown coin", "coin", update.CoinID)
		return nil
	}

	currency := update.Currency
	if currency == "" {
		currency = s.currency
	}

	return s.coinsRepo.UpsertPrice(&models.CoinPrice{
		CoinID:    update.CoinID,
		Currency:  currency,
		Price:     decimal.NewFromFloat(update.Price),
		MarketCap: decimal.NewFromFloat(update.MarketCap),
		Volume24h: decimal.NewFromFloat(update.Volume24h),
		Change24h: decimal.NewFromFloat(update.Change24h),
		Timestamp: time.Now(),
	})
}
