// Package notifications delivers realtime summary updates over Redis pub/sub and WebSockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	"github.com/redis/go-redis/v9"
)

const summaryChannelPrefix = "summary:user:"

const (
	// EventSummaryUpdated is sent after a user's daily summary is recomputed.
	EventSummaryUpdated = "summary_updated"
	// EventSummarySnapshot carries today's summary when a socket connects.
	EventSummarySnapshot = "summary_snapshot"
)

// Event is the envelope written to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notifier publishes summary events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier. A nil client makes every publish a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// SummaryChannel derives the Redis channel name for a user's summary events.
func SummaryChannel(userID uint) string {
	return summaryChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// PublishSummary sends summary to its owner's channel.
func (n *Notifier) PublishSummary(ctx context.Context, summary *models.DailySummary) error {
	if n == nil || n.rdb == nil || summary == nil {
		return nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "publish")
	defer span.End()

	payload, err := json.Marshal(Event{Type: EventSummaryUpdated, Payload: summary})
	if err != nil {
		return fmt.Errorf("marshal summary event: %w", err)
	}
	return n.rdb.Publish(ctx, SummaryChannel(summary.UserID), payload).Err()
}

// StartSummarySubscriber subscribes to every user's summary channel and calls
// onMessage for each event until ctx is cancelled. It returns once the
// subscription is confirmed.
func (n *Notifier) StartSummarySubscriber(
	ctx context.Context, onMessage func(userID uint, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, summaryChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s*: %w", summaryChannelPrefix, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				userID, err := parseUserChannel(msg.Channel)
				if err != nil {
					observability.GlobalLogger().Warn("invalid summary channel", slog.String("channel", msg.Channel))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger().Error("panic in summary subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(userID, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

func parseUserChannel(channel string) (uint, error) {
	raw, ok := strings.CutPrefix(channel, summaryChannelPrefix)
	if !ok {
		return 0, fmt.Errorf("unexpected channel %q", channel)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("unexpected channel %q", channel)
	}
	return uint(id), nil
}
