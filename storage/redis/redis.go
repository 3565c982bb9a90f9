package redis

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Message struct {
	Channel string
	Payload string
}

// Subscriber listens for live price updates published by the market-data
// pipeline and fans them into a buffered channel.
type Subscriber struct {
	client        *redis.Client
	Messages      chan Message
	subscriptions map[string]*redis.PubSub
	mu            sync.RWMutex
	log           *slog.Logger
}

func NewSubscriber(addr string, log *slog.Logger) *Subscriber {
	return &Subscriber{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		Messages:      make(chan Message, 1000),
		subscriptions: make(map[string]*redis.PubSub),
		log:           log,
	}
}

func (s *Subscriber) Subscribe(ctx context.Context, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[channel]; exists {
		return nil
	}

	pubsub := s.client.Subscribe(ctx, channel)

	_, err := pubsub.Receive(ctx)
	if err != nil {
		s.log.Error("failed to subscribe to redis channel", "channel", channel, "error", err)
		return err
	}

	s.subscriptions[channel] = pubsub
	s.log.Info("subscribed to redis channel", "channel", channel)

	go s.listener(ctx, pubsub)

	return nil
}

func (s *Subscriber) Unsubscribe(ctx context.Context, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pubsub, exists := s.subscriptions[channel]
	if !exists {
		return nil
	}

	delete(s.subscriptions, channel)

	if err := pubsub.Unsubscribe(ctx, channel); err != nil {
		s.log.Error("failed to unsubscribe from channel", "channel", channel, "error", err)
	}

	if err := pubsub.Close(); err != nil {
		s.log.Warn("error closing pubsub", "channel", channel, "error", err)
	}

	s.log.Info("unsubscribed from redis channel", "channel", channel)
	return nil
}

func (s *Subscriber) listener(ctx context.Context, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("listener stopped due to context cancellation")
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn("redis pubsub channel closed")
				return
			}

			select {
			case s.Messages <- Message{Channel: msg.Channel, Payload: msg.Payload}:
			default:
				s.log.Warn("messages channel full, dropping price update")
			}
		}
	}
}

func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("closing redis subscriber...")
	for _, pubsub := range s.subscriptions {
		pubsub.Close()
	}

	if s.client != nil {
		s.client.Close()
	}

	if s.Messages != nil {
		close(s.Messages)
	}
	s.log.Info("redis subscriber closed")
}
