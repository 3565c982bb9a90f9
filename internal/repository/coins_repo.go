package repository

import (
	"errors"
	"strings"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoinsRepository interface {
	UpsertCoin(coin *models.Coin) error
	GetCoin(id string) (*models.Coin, error)
	FindCoin(query string) (*models.Coin, error)
	DeleteCoin(id string) error
	UpsertPrice(price *models.CoinPrice) error
	GetPrice(coinID, currency string) (*models.CoinPrice, error)
	UpsertOHLC(candle *models.OHLC) error
	ListOHLC(coinID string, interval models.OHLCInterval) ([]models.OHLC, error)
	UpsertTrending(trending *models.TrendingCoin) error
	ListTrending() ([]models.TrendingCoin, error)
	CountCoins() (int64, error)
}

type coinsRepository struct {
	db *gorm.DB
}

func NewCoinsRepository(db *gorm.DB) CoinsRepository {
	return &coinsRepository{db: db}
}

func (r *coinsRepository) UpsertCoin(coin *models.Coin) error {
	if coin.LastUpdated.IsZero() {
		coin.LastUpdated = time.Now()
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"symbol", "name", "platforms", "extra_data", "last_updated"}),
	}).Create(coin).Error

	return translate(err)
}

func (r *coinsRepository) GetCoin(id string) (*models.Coin, error) {
	var coin models.Coin
	if err := r.db.First(&coin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return &coin, nil
}

// FindCoin matches by id or symbol, case-insensitively.
func (r *coinsRepository) FindCoin(query string) (*models.Coin, error) {
	var coin models.Coin
	err := r.db.Where("id = ? OR symbol = ?", strings.ToLower(query), strings.ToLower(query)).
		First(&coin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return &coin, nil
}

func (r *coinsRepository) DeleteCoin(id string) error {
	result := r.db.Select(clause.Associations).Delete(&models.Coin{ID: id})

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *coinsRepository) UpsertPrice(price *models.CoinPrice) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coin_id"}, {Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "market_cap", "volume24h", "change24h", "timestamp"}),
	}).Create(price).Error

	return translate(err)
}

func (r *coinsRepository) GetPrice(coinID, currency string) (*models.CoinPrice, error) {
	var price models.CoinPrice
	if err := r.db.Where("coin_id = ? AND currency = ?", coinID, currency).First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return &price, nil
}

func (r *coinsRepository) UpsertOHLC(candle *models.OHLC) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coin_id"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"interval", "open", "high", "low", "close", "volume", "market_cap"}),
	}).Create(candle).Error

	return translate(err)
}

func (r *coinsRepository) ListOHLC(coinID string, interval models.OHLCInterval) ([]models.OHLC, error) {
	var candles []models.OHLC
	err := r.db.Where("coin_id = ? AND interval = ?", coinID, interval).
		Order("timestamp asc").
		Find(&candles).Error
	if err != nil {
		return nil, err
	}

	return candles, nil
}

func (r *coinsRepository) UpsertTrending(trending *models.TrendingCoin) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rank", "score", "market_cap", "thumb"}),
	}).Create(trending).Error

	return translate(err)
}

func (r *coinsRepository) ListTrending() ([]models.TrendingCoin, error) {
	var trending []models.TrendingCoin
	if err := r.db.Order("rank asc").Find(&trending).Error; err != nil {
		return nil, err
	}

	return trending, nil
}

func (r *coinsRepository) CountCoins() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Coin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
