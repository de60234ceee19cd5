package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nutritrack/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishSummary(context.Background(), &models.DailySummary{UserID: 1}))
	assert.NoError(t, n.StartSummarySubscriber(context.Background(), func(uint, string) {
		t.Fatal("unexpected message")
	}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishSummary(context.Background(), &models.DailySummary{UserID: 1}))
}

func TestSummaryChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "summary:user:1"},
		{100, "summary:user:100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SummaryChannel(tt.userID))
		id, err := parseUserChannel(tt.expected)
		require.NoError(t, err)
		assert.Equal(t, tt.userID, id)
	}

	for _, bad := range []string{"summary:user:", "summary:user:abc", "summary:user:0", "chat:conv:1"} {
		_, err := parseUserChannel(bad)
		assert.Error(t, err, bad)
	}
}

func TestNotifier_PublishReachesSubscriber(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type received struct {
		userID  uint
		payload string
	}
	got := make(chan received, 1)
	require.NoError(t, n.StartSummarySubscriber(ctx, func(userID uint, payload string) {
		got <- received{userID, payload}
	}))

	summary := &models.DailySummary{UserID: 7, SummaryDate: "2024-03-01", TotalCaloriesConsumed: 500, NetCalories: 300}
	require.NoError(t, n.PublishSummary(context.Background(), summary))

	select {
	case msg := <-got:
		assert.Equal(t, uint(7), msg.userID)
		var event struct {
			Type    string              `json:"type"`
			Payload models.DailySummary `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.payload), &event))
		assert.Equal(t, EventSummaryUpdated, event.Type)
		assert.Equal(t, "2024-03-01", event.Payload.SummaryDate)
		assert.Equal(t, 300.0, event.Payload.NetCalories)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("summary event not delivered")
	}
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())

	payloads := make(chan string, 4)
	require.NoError(t, n.StartSummarySubscriber(ctx, func(_ uint, payload string) {
		payloads <- payload
	}))

	require.NoError(t, n.PublishSummary(context.Background(), &models.DailySummary{UserID: 1, SummaryDate: "before"}))
	assert.Eventually(t, func() bool { return len(payloads) >= 1 }, testEventuallyTimeout, testPollInterval)
	<-payloads

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.PublishSummary(context.Background(), &models.DailySummary{UserID: 1, SummaryDate: "after"}))
	assert.Never(t, func() bool { return len(payloads) > 0 }, 200*time.Millisecond, testPollInterval)
}
