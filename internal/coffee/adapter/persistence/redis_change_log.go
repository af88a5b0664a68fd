package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// RedisChangeLog implements repository.ChangeLog with one Redis Stream per collection
type RedisChangeLog struct {
	client    *redis.Client
	prefix    string
	maxLength int64
	logger    logger.Logger
}

// NewRedisChangeLog creates a change log writing to streams named <prefix>:<collection>.
// maxLength bounds each stream approximately; zero disables trimming.
func NewRedisChangeLog(client *redis.Client, prefix string, maxLength int64, log logger.Logger) *RedisChangeLog {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisChangeLog{
		client:    client,
		prefix:    prefix,
		maxLength: maxLength,
		logger:    log.WithComponent("change-log"),
	}
}

// StreamName returns the stream key of a collection
func (r *RedisChangeLog) StreamName(collection string) string {
	return r.prefix + ":" + collection
}

// Append stores the event at the end of its collection stream
func (r *RedisChangeLog) Append(ctx context.Context, event model.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize change event: %w", err)
	}

	stream := r.StreamName(event.Collection)
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"eventId":    event.ID,
			"type":       string(event.Type),
			"documentId": event.DocumentID,
			"timestamp":  event.Timestamp.UnixNano(),
			"event":      payload,
		},
	}
	if r.maxLength > 0 {
		args.MaxLen = r.maxLength
		args.Approx = true
	}

	msgID, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Errorf("Failed to append %s event to %s: %v", event.Type, stream, err)
		return err
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":    stream,
		"messageId": msgID,
		"eventType": string(event.Type),
	}).Debug("Change event appended")
	return nil
}

// Recent returns up to count events of a collection, oldest first
func (r *RedisChangeLog) Recent(ctx context.Context, collection string, count int64) ([]model.ChangeEvent, error) {
	if count <= 0 {
		return []model.ChangeEvent{}, nil
	}

	stream := r.StreamName(collection)
	msgs, err := r.client.XRevRangeN(ctx, stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", stream, err)
	}

	events := make([]model.ChangeEvent, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		event, err := parseEventFromMessage(msgs[i])
		if err != nil {
			r.logger.Warnf("Skipping unreadable message %s in %s: %v", msgs[i].ID, stream, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Ping checks the Redis connection
func (r *RedisChangeLog) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (r *RedisChangeLog) Close() error {
	return r.client.Close()
}

func parseEventFromMessage(msg redis.XMessage) (model.ChangeEvent, error) {
	var event model.ChangeEvent
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return event, fmt.Errorf("message %s has no event payload", msg.ID)
	}
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, err
	}
	return event, nil
}
