package http

import (
	"context"
	"sort"
	"time"

	"coffee-store/internal/coffee/config"
	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/coffee/usecase"
	apperrors "coffee-store/internal/shared/errors"
	"coffee-store/internal/shared/logger"
	"coffee-store/internal/shared/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	localCollection = "feedCollection"
	localReplay     = "feedReplay"

	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
	replayTimeout = 5 * time.Second
)

// Feed message types
const (
	MessageSubscribed = "subscribed"
	MessageReplay     = "replay"
	MessageChange     = "change"
)

// FeedMessage is one frame written to a change feed client.
type FeedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ChangeFeedHandler streams change events to websocket clients.
type ChangeFeedHandler struct {
	feed      usecase.ChangeFeed
	changeLog repository.ChangeLog
	cfg       config.RealtimeConfig
	log       logger.Logger
}

// NewChangeFeedHandler creates the handler. changeLog may be nil, in which case
// replay requests are ignored.
func NewChangeFeedHandler(feed usecase.ChangeFeed, changeLog repository.ChangeLog, cfg config.RealtimeConfig, log logger.Logger) *ChangeFeedHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ChangeFeedHandler{
		feed:      feed,
		changeLog: changeLog,
		cfg:       cfg,
		log:       log.WithComponent("change-feed-ws"),
	}
}

// RegisterRoutes registers the websocket endpoint at the configured path.
func (h *ChangeFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Use(h.cfg.WebSocketPath, h.Upgrade)
	router.Get(h.cfg.WebSocketPath, websocket.New(h.stream))
}

// Upgrade rejects plain HTTP requests and validates the feed parameters:
// ?collection=coffee|users (both when absent) and ?replay=N stored events.
func (h *ChangeFeedHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	collection := c.Query("collection")
	if collection != "" && !model.IsCollection(collection) {
		return apperrors.NewUnknownCollectionError(collection).WithComponent("change-feed")
	}
	replay := int64(c.QueryInt("replay", 0))
	if replay < 0 {
		replay = 0
	}
	if replay > h.cfg.MaxReplay {
		replay = h.cfg.MaxReplay
	}

	c.Locals(localCollection, collection)
	c.Locals(localReplay, replay)
	return c.Next()
}

func (h *ChangeFeedHandler) stream(conn *websocket.Conn) {
	collection, _ := conn.Locals(localCollection).(string)
	replay, _ := conn.Locals(localReplay).(int64)
	requestID, _ := conn.Locals(requestIDLocal).(string)

	ctx := utils.WithRequestID(context.Background(), requestID)
	log := h.log.WithContext(ctx)

	// subscribe before replaying so no event falls between the two
	subscriberID, events := h.feed.Subscribe(collection, h.cfg.ClientBuffer)
	defer h.feed.Unsubscribe(subscriberID)
	log.Infof("Change feed client %s connected", subscriberID)

	if err := h.write(conn, MessageSubscribed, map[string]string{
		"subscriberId": subscriberID,
		"collection":   collection,
	}); err != nil {
		return
	}

	// events logged while replaying also arrive live; those are sent once
	replayed := make(map[string]struct{})
	if replay > 0 {
		stored, err := h.Replay(ctx, collection, replay)
		if err != nil {
			log.Warnf("Replay for %s failed: %v", subscriberID, err)
		}
		for _, event := range stored {
			if err := h.write(conn, MessageReplay, event); err != nil {
				return
			}
			if event.ID != "" {
				replayed[event.ID] = struct{}{}
			}
		}
	}

	// the client never sends anything we act on; reading detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Infof("Change feed client %s disconnected", subscriberID)
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			if _, seen := replayed[event.ID]; seen {
				delete(replayed, event.ID)
				continue
			}
			if err := h.write(conn, MessageChange, event); err != nil {
				log.Warnf("Write to %s failed: %v", subscriberID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *ChangeFeedHandler) write(conn *websocket.Conn, messageType string, data interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(FeedMessage{Type: messageType, Data: data})
}

// Replay returns up to count stored events of collection, or of every collection when
// it is empty, oldest first.
func (h *ChangeFeedHandler) Replay(ctx context.Context, collection string, count int64) ([]model.ChangeEvent, error) {
	if h.changeLog == nil || count <= 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, replayTimeout)
	defer cancel()

	collections := model.Collections
	if collection != "" {
		collections = []string{collection}
	}

	var merged []model.ChangeEvent
	for _, name := range collections {
		events, err := h.changeLog.Recent(ctx, name, count)
		if err != nil {
			return merged, err
		}
		merged = append(merged, events...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	if int64(len(merged)) > count {
		merged = merged[int64(len(merged))-count:]
	}
	return merged, nil
}
