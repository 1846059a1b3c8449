package ws

// publisher.go — Redis pub/sub bridge between the notification service and
// the websocket hub. Publishing goes through Redis so every API instance
// fans out to its own connected sockets.

import (
	"context"
	"encoding/json"

	"gravoplus/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const notificationChannel = "notifications"

// RedisPublisher implements service.NotificationPublisher over a Redis channel.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, n dto.NotificationResponse) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, notificationChannel, data).Err()
}

// Subscribe consumes the notification channel and broadcasts each message to
// the hub as a "notification:new" event. Blocks until ctx is cancelled; run
// it in its own goroutine.
func Subscribe(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.Subscribe(ctx, notificationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n dto.NotificationResponse
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Error().Err(err).Msg("ws: invalid notification payload")
				continue
			}
			hub.Broadcast("notification:new", n)
		}
	}
}
