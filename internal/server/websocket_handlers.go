package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nutritrack/internal/featureflags"
	"nutritrack/internal/middleware"
	"nutritrack/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SummaryWebSocketHandler handles GET /api/ws/summary. The socket receives
// today's summary on connect and every recomputed summary of its user after that.
func (s *Server) SummaryWebSocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.LocalUserID).(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		var initial [][]byte
		if snapshot := s.snapshot(userID); snapshot != nil {
			initial = append(initial, snapshot)
		}
		client, err := s.hub.Register(userID, conn, initial...)
		if err != nil {
			middleware.Logger.Warn("summary socket rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			msg, _ := json.Marshal(fiber.Map{"error": err.Error()})
			_ = conn.WriteMessage(websocket.TextMessage, msg)
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, _ := c.Locals(middleware.LocalUserID).(uint)
		if !s.flags.Enabled(featureflags.SummarySocket, userID) {
			return featureDisabled(c)
		}
		return upgrade(c)
	}
}

// snapshot encodes today's summary for userID, or returns nil when it cannot
// be built. The socket still opens without it.
func (s *Server) snapshot(userID uint) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := s.summaries.GetDailySummary(ctx, userID, "")
	if err != nil {
		middleware.Logger.WarnContext(ctx, "summary snapshot failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	msg, err := json.Marshal(notifications.Event{Type: notifications.EventSummarySnapshot, Payload: summary})
	if err != nil {
		return nil
	}
	return msg
}
