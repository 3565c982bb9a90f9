package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

type Client struct {
	client *resty.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	client := resty.New()

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client.SetBaseURL(baseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)

	return &Client{client: client}
}

// Markets returns one page of coins ordered by market cap, priced in the
// given currency.
func (c *Client) Markets(ctx context.Context, currency string, perPage int) ([]MarketCoin, error) {
	var coins []MarketCoin

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": currency,
			"order":       "market_cap_desc",
			"per_page":    strconv.Itoa(perPage),
			"page":        "1",
		}).
		SetResult(&coins).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("markets request failed: %s", resp.Status())
	}

	return coins, nil
}

func (c *Client) Trending(ctx context.Context) ([]TrendingItem, error) {
	var result trendingResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/search/trending")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("trending request failed: %s", resp.Status())
	}

	items := make([]TrendingItem, 0, len(result.Coins))
	for _, entry := range result.Coins {
		items = append(items, entry.Item)
	}

	return items, nil
}

// OHLC returns candles for a coin over the trailing window of days
// (1, 7, 30 or 90).
func (c *Client) OHLC(ctx context.Context, coinID, currency string, days int) ([]Candle, error) {
	var candles []Candle

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": currency,
			"days":        strconv.Itoa(days),
		}).
		SetResult(&candles).
		Get("/coins/" + coinID + "/ohlc")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ohlc for %s: %w", coinID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ohlc request for %s failed: %s", coinID, resp.Status())
	}

	return candles, nil
}
