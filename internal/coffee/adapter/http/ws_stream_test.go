package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coffee-store/internal/coffee/config"
	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/usecase"
	"coffee-store/internal/shared/eventbus"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) (frame, model.ChangeEvent) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	var event model.ChangeEvent
	if f.Type != MessageSubscribed {
		require.NoError(t, json.Unmarshal(f.Data, &event))
	}
	return f, event
}

func TestChangeFeed_StreamsReplayThenLiveChanges(t *testing.T) {
	bus := eventbus.NewEventBus(nil)
	feed := usecase.NewChangeFeed(bus, nil)
	defer feed.Close()
	publisher := usecase.NewBusChangePublisher(bus)

	changeLog := &stubChangeLog{events: map[string][]model.ChangeEvent{
		model.CollectionCoffee: {{ID: "stored", Type: model.ChangeTypeDeleted, Collection: model.CollectionCoffee, Timestamp: time.Now().UTC()}},
	}}

	app := NewFiberApp(nil)
	NewChangeFeedHandler(feed, changeLog, config.DefaultConfig().Realtime, nil).RegisterRoutes(app)
	NewDocumentHTTPHandler(
		usecase.NewCoffeeUsecase(newMemoryCollection(model.CollectionCoffee), publisher, nil),
		usecase.NewUserUsecase(newMemoryCollection(model.CollectionUsers), publisher, nil),
		nil,
	).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/changes?collection=coffee&replay=5", nil)
	require.NoError(t, err)
	defer conn.Close()

	f, _ := readFrame(t, conn)
	assert.Equal(t, MessageSubscribed, f.Type)
	assert.Contains(t, string(f.Data), `"collection":"coffee"`)

	f, event := readFrame(t, conn)
	assert.Equal(t, MessageReplay, f.Type)
	assert.Equal(t, "stored", event.ID)

	// a users write is filtered out, the coffee write is delivered
	for _, path := range []string{"/users", "/coffee"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{"name":"Latte"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
	}

	f, event = readFrame(t, conn)
	assert.Equal(t, MessageChange, f.Type)
	assert.Equal(t, model.ChangeTypeCreated, event.Type)
	assert.Equal(t, model.CollectionCoffee, event.Collection)
	assert.Equal(t, "Latte", event.Data["name"])
	assert.Len(t, event.DocumentID, 24)
}

func TestChangeFeed_EventLoggedDuringReplayIsSentOnce(t *testing.T) {
	bus := eventbus.NewEventBus(nil)
	feed := usecase.NewChangeFeed(bus, nil)
	defer feed.Close()

	racing := model.ChangeEvent{ID: "racing", Type: model.ChangeTypeCreated, Collection: model.CollectionCoffee, Timestamp: time.Now().UTC()}
	later := model.ChangeEvent{ID: "later", Type: model.ChangeTypeDeleted, Collection: model.CollectionCoffee, Timestamp: time.Now().UTC()}
	changeLog := &stubChangeLog{events: map[string][]model.ChangeEvent{
		model.CollectionCoffee: {racing},
	}}
	// the event is logged and published while the replay is being read
	changeLog.onRecent = func() {
		_ = bus.Publish(context.Background(), eventbus.NewBasicEvent(usecase.BusEventType(racing.Type), racing))
	}

	app := NewFiberApp(nil)
	NewChangeFeedHandler(feed, changeLog, config.DefaultConfig().Realtime, nil).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/changes?collection=coffee&replay=5", nil)
	require.NoError(t, err)
	defer conn.Close()

	f, _ := readFrame(t, conn)
	require.Equal(t, MessageSubscribed, f.Type)

	f, event := readFrame(t, conn)
	assert.Equal(t, MessageReplay, f.Type)
	assert.Equal(t, "racing", event.ID)

	require.NoError(t, bus.Publish(context.Background(), eventbus.NewBasicEvent(usecase.BusEventType(later.Type), later)))

	f, event = readFrame(t, conn)
	assert.Equal(t, MessageChange, f.Type)
	assert.Equal(t, "later", event.ID)
}
