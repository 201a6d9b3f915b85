package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StreamPublisher appends events to a Redis stream for the email worker.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Handle(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type": string(evt.Type),
			"data": string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Consumer reads the event stream through a consumer group. Entries are
// acknowledged only after the handler succeeds, so failed deliveries stay
// pending and are retried when the consumer restarts.
type Consumer struct {
	client  *redis.Client
	stream  string
	group   string
	name    string
	handler Handler
	logger  *zap.Logger
	batch   int64
	block   time.Duration
	timeout time.Duration
	backoff time.Duration
}

func NewConsumer(client *redis.Client, stream, group, name string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:  client,
		stream:  stream,
		group:   group,
		name:    name,
		handler: handler,
		logger:  logger,
		batch:   16,
		block:   5 * time.Second,
		timeout: 10 * time.Second,
		backoff: time.Second,
	}
}

func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Run processes this consumer's pending entries once, then new entries until
// ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	if _, err := c.ReplayPending(ctx); err != nil && ctx.Err() == nil {
		c.logger.Error("failed to replay pending events", zap.Error(err))
	}

	for ctx.Err() == nil {
		if _, err := c.Process(ctx, ">", c.block); err != nil {
			if ctx.Err() != nil {
				break
			}
			c.logger.Error("failed to read event stream", zap.Error(err))
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
			}
		}
	}
	return nil
}

// ReplayPending handles every entry already delivered to this consumer but not
// yet acknowledged, one batch at a time. Entries that fail again stay pending.
func (c *Consumer) ReplayPending(ctx context.Context) (int, error) {
	total := 0
	cursor := "0"
	for {
		acked, last, err := c.read(ctx, cursor, -1)
		total += acked
		if err != nil || last == "" {
			return total, err
		}
		cursor = last
	}
}

// Process reads one batch starting at id ("0" for pending, ">" for new) and
// returns the number of acknowledged entries. A negative block does not wait.
func (c *Consumer) Process(ctx context.Context, id string, block time.Duration) (int, error) {
	acked, _, err := c.read(ctx, id, block)
	return acked, err
}

// read handles one batch and returns the id of the last entry it saw.
func (c *Consumer) read(ctx context.Context, id string, block time.Duration) (int, string, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, id},
		Count:    c.batch,
		Block:    block,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", nil
		}
		return 0, "", err
	}

	acked := 0
	last := ""
	for _, s := range streams {
		for _, msg := range s.Messages {
			last = msg.ID
			if c.handle(ctx, msg) {
				if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
					return acked, last, fmt.Errorf("failed to ack %s: %w", msg.ID, err)
				}
				acked++
			}
		}
	}
	return acked, last, nil
}

// handle reports whether msg can be acknowledged. Undecodable entries are
// acknowledged so they do not block the group.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) bool {
	raw, _ := msg.Values["data"].(string)

	var evt Event
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		c.logger.Warn("dropping undecodable event", zap.String("id", msg.ID), zap.Error(err))
		return true
	}

	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.handler.Handle(hctx, evt); err != nil {
		c.logger.Error("event handler failed",
			zap.String("id", msg.ID),
			zap.String("type", string(evt.Type)),
			zap.Error(err),
		)
		return false
	}
	return true
}
