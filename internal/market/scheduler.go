package market

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/service"
	"crypto-analyst-bot/storage/redis"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic CoinGecko sync and drains the live price
// feed between cycles.
type Scheduler struct {
	market     service.Market
	subscriber *redis.Subscriber
	channel    string
	cron       *cron.Cron
	spec       string
	log        *slog.Logger
}

func NewScheduler(market service.Market, subscriber *redis.Subscriber, channel, spec string, log *slog.Logger) *Scheduler {
	return &Scheduler{
		market:     market,
		subscriber: subscriber,
		channel:    channel,
		cron:       cron.New(cron.WithSeconds()),
		spec:       spec,
		log:        log,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("starting market sync scheduler", "spec", s.spec)

	_, err := s.cron.AddFunc(s.spec, func() {
		s.syncCycle(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Initial sync so the tables are populated before the first tick.
	go s.syncCycle(ctx)

	if s.subscriber != nil {
		if err := s.subscriber.Subscribe(ctx, s.channel); err != nil {
			// The feed is an accelerator on top of the cron sync;
			// the bot still works without it.
			s.log.Warn("live price feed unavailable", "error", err)
		} else {
			go s.drainFeed(ctx)
		}
	}

	return nil
}

func (s *Scheduler) Stop() {
	s.log.Info("stopping market sync scheduler")
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn("timed out waiting for running sync to finish")
	}
}

func (s *Scheduler) syncCycle(ctx context.Context) {
	start := time.Now()

	if err := s.market.SyncMarkets(ctx); err != nil {
		s.log.Error("market sync failed", "error", err)
	}
	if err := s.market.SyncTrending(ctx); err != nil {
		s.log.Error("trending sync failed", "error", err)
	}

	s.log.Info("sync cycle finished", "duration_ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) drainFeed(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.subscriber.Messages:
			if !ok {
				return
			}

			var update models.PriceUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				s.log.Warn("malformed price update", "error", err)
				continue
			}

			if err := s.market.ApplyPriceUpdate(ctx, update); err != nil {
				s.log.Error("failed to apply price update", "coin", update.CoinID, "error", err)
			}
		}
	}
}
