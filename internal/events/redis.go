package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured
const DefaultChannel = "contentrepo:events"

// Publisher is the subset of *redis.Client used by RedisSink
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes events as JSON on a pub/sub channel
type RedisSink struct {
	client  Publisher
	channel string
}

// NewRedisSink creates a RedisSink; an empty channel uses DefaultChannel
func NewRedisSink(client Publisher, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSink{client: client, channel: channel}
}

// Emit implements Sink
func (s *RedisSink) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish %s to %s", event.Name, s.channel)
	}
	return nil
}

// ConnectRedis parses a redis:// url and verifies the connection with a ping
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return client, nil
}
