package server

import (
	"context"
	"log/slog"

	"travelog/internal/featureflags"
	"travelog/internal/middleware"
	"travelog/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgrade gates GET /api/ws/feed: 404 while live_feed is off, 426 for plain HTTP.
func (s *Server) FeedUpgrade(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	if !s.featureFlags.Enabled(featureflags.LiveFeed, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// FeedWebSocket streams feed events to one viewer until either side closes.
func (s *Server) FeedWebSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("feed connection rejected",
				slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
		<-client.Done()
	})
}

// startFeedWiring subscribes this instance to the shared feed channel. Until it
// succeeds, published events are also delivered to local viewers directly.
func (s *Server) startFeedWiring(ctx context.Context) error {
	if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
		return err
	}
	s.feedWired.Store(s.notifier.Enabled())
	return nil
}

// publishFeedEvent delivers an event to every feed viewer. With Redis the event goes
// through the pub/sub channel, which this instance also consumes once wired; without
// Redis, or while the subscriber is down, local viewers get it directly.
// Events go out whenever any user can open the feed; FeedUpgrade decides per viewer.
func (s *Server) publishFeedEvent(ctx context.Context, eventType string, payload any) {
	if !s.featureFlags.Reachable(featureflags.LiveFeed) {
		return
	}

	message, err := notifications.Encode(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode feed event", slog.String("error", err.Error()))
		return
	}

	if s.notifier.Enabled() {
		err := s.notifier.PublishBroadcast(ctx, message)
		if err == nil && s.feedWired.Load() {
			return
		}
		if err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish feed event, delivering locally",
				slog.String("type", eventType), slog.String("error", err.Error()))
		}
	}
	s.hub.BroadcastAll(message)
}
