package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserType string

const (
	UserTypeGuest   UserType = "GUEST"
	UserTypePremium UserType = "PREMIUM"
	UserTypeBanned  UserType = "BANNED"
)

type AdminRole string

const (
	AdminRoleMaster  AdminRole = "MASTER"
	AdminRoleNormal  AdminRole = "NORMAL"
	AdminRoleWatcher AdminRole = "WATCHER"
)

// OHLCInterval is the candle window in days.
type OHLCInterval int

const (
	Interval1Day   OHLCInterval = 1
	Interval7Days  OHLCInterval = 7
	Interval30Days OHLCInterval = 30
	Interval90Days OHLCInterval = 90
)

// BootstrapCreator is the sentinel created_by value for admins that were
// seeded from configuration rather than by another admin.
const BootstrapCreator = "bootstrap"

const (
	DefaultLanguage  = "en"
	DefaultChartType = "candlestick"
	DefaultTimeframe = 30
)

type Coin struct {
	ID          string `gorm:"primaryKey"`
	Symbol      string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Platforms   string `gorm:"type:text"`
	ExtraData   string `gorm:"type:text"`
	LastUpdated time.Time

	Prices   []CoinPrice    `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE;"`
	Candles  []OHLC         `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE;"`
	Trending []TrendingCoin `gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE;"`
}

type CoinPrice struct {
	ID        uint            `gorm:"primaryKey"`
	CoinID    string          `gorm:"not null;uniqueIndex:idx_coin_currency,priority:1"`
	Currency  string          `gorm:"not null;uniqueIndex:idx_coin_currency,priority:2"`
	Price     decimal.Decimal `gorm:"type:decimal(30,12);not null"`
	MarketCap decimal.Decimal `gorm:"type:decimal(30,2)"`
	Volume24h decimal.Decimal `gorm:"type:decimal(30,2)"`
	Change24h decimal.Decimal `gorm:"type:decimal(12,6)"`
	Timestamp time.Time       `gorm:"not null"`
}

type OHLC struct {
	ID        uint            `gorm:"primaryKey"`
	CoinID    string          `gorm:"not null;uniqueIndex:idx_coin_ts,priority:1"`
	Timestamp time.Time       `gorm:"not null;uniqueIndex:idx_coin_ts,priority:2"`
	Interval  OHLCInterval    `gorm:"not null"`
	Open      decimal.Decimal `gorm:"type:decimal(30,12);not null"`
	High      decimal.Decimal `gorm:"type:decimal(30,12);not null"`
	Low       decimal.Decimal `gorm:"type:decimal(30,12);not null"`
	Close     decimal.Decimal `gorm:"type:decimal(30,12);not null"`
	Volume    decimal.Decimal `gorm:"type:decimal(30,2)"`
	MarketCap decimal.Decimal `gorm:"type:decimal(30,2)"`
}

type TrendingCoin struct {
	ID        uint            `gorm:"primaryKey"`
	CoinID    string          `gorm:"not null;uniqueIndex"`
	Rank      int             `gorm:"not null"`
	Score     float64         `gorm:"not null"`
	MarketCap decimal.Decimal `gorm:"type:decimal(30,2)"`
	Thumb     string
}

type User struct {
	ID                 uint     `gorm:"primaryKey"`
	TelegramID         string   `gorm:"uniqueIndex;not null"`
	Username           string
	UserType           UserType `gorm:"type:varchar(16);not null;default:'GUEST'"`
	CreatedAt          time.Time
	LastActive         time.Time
	Language           string `gorm:"type:varchar(8);not null;default:'en'"`
	PreferredChartType string `gorm:"type:varchar(32);not null;default:'candlestick'"`
	PreferredTimeframe int    `gorm:"not null;default:30"`

	Activities []UserActivity `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

type UserActivity struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"not null;index"`
	CoinID       string `gorm:"index"`
	ActivityType string `gorm:"not null"`
	Timestamp    int64  `gorm:"not null"`
	Details      string `gorm:"type:text"`
}

type Admin struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex;not null"`
	User      User      `gorm:"foreignKey:UserID;references:TelegramID"`
	Role      AdminRole `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
	CreatedBy string `gorm:"not null"`
	IsActive  bool   `gorm:"not null;default:true"`

	Activities []AdminActivity `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE;"`
}

type AdminActivity struct {
	ID           uint    `gorm:"primaryKey"`
	AdminID      uint    `gorm:"not null;index"`
	ActivityType string  `gorm:"not null"`
	TargetUserID *string `gorm:"index"`
	Timestamp    int64   `gorm:"not null"`
	Details      string  `gorm:"type:text"`
}

// All lists every entity in migration order: parents before children so the
// foreign keys resolve.
func All() []any {
	return []any{
		&User{},
		&UserActivity{},
		&Admin{},
		&AdminActivity{},
		&Coin{},
		&CoinPrice{},
		&OHLC{},
		&TrendingCoin{},
	}
}
