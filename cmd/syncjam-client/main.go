// Command syncjam-client is a headless stand-in for the browser client
// the Playback Coordinator talks to: it dials the room's WebSocket
// endpoint and drives a Client Controller (internal/controller) against
// a simulated media sink instead of a real player. Useful for load
// testing and for exercising the full ping/prebuffer/sync protocol
// without a browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
	"github.com/xGuatx/youtube-sync-multi-client/internal/controller"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// wsTransport adapts a *websocket.Conn to controller.Transport.
type wsTransport struct {
	ctx    context.Context
	conn   *websocket.Conn
	logger *slog.Logger
}

func (t *wsTransport) Send(msgType string, payload any) {
	msg := protocol.ClientMessage{Type: msgType, Payload: payload}
	if err := wsjson.Write(t.ctx, t.conn, msg); err != nil {
		t.logger.Warn("send failed", "type", msgType, "err", err)
	}
}

func main() {
	addr := flag.String("addr", "ws://127.0.0.1:8080/ws", "room websocket URL")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		logger.Error("dial failed", "err", err)
		os.Exit(1)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	transport := &wsTransport{ctx: ctx, conn: conn, logger: logger}
	sink := newSimulatedSink()
	ctrl := controller.New(sink, transport, time.Now, clock.RealScheduler{}, logger)
	tracker := &indexTracker{current: -1}

	go pingLoop(ctx, ctrl)
	go watchdogLoop(ctx, ctrl)
	go readLoop(ctx, conn, ctrl, tracker, logger)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	<-signalChan
	cancel()
}

func pingLoop(ctx context.Context, ctrl *controller.Controller) {
	ticker := time.NewTicker(protocol.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctrl.SendPing()
		}
	}
}

func watchdogLoop(ctx context.Context, ctrl *controller.Controller) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	noopReloader := reloadFunc(func(ctx context.Context, atTime float64) error { return nil })
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctrl.WatchdogTick(ctx, noopReloader, nil)
		}
	}
}

type reloadFunc func(ctx context.Context, atTime float64) error

func (f reloadFunc) Reload(ctx context.Context, atTime float64) error { return f(ctx, atTime) }

// indexTracker remembers the last-seen currentIndex across roomState/
// queueUpdate messages so the client can tell whether a queueUpdate
// actually changed the current track (§4.6: the 3s post-queueUpdate
// transition window only opens when it did).
type indexTracker struct {
	current int
}

// changed reports whether idx differs from the last-observed index and
// records idx as the new baseline.
func (t *indexTracker) changed(idx int) bool {
	prev := t.current
	t.current = idx
	return prev != idx
}

func readLoop(ctx context.Context, conn *websocket.Conn, ctrl *controller.Controller, tracker *indexTracker, logger *slog.Logger) {
	for {
		var msg protocol.ServerMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			logger.Info("connection closed", "err", err)
			return
		}
		dispatch(ctx, msg, ctrl, tracker, logger)
	}
}

func dispatch(ctx context.Context, msg protocol.ServerMessage, ctrl *controller.Controller, tracker *indexTracker, logger *slog.Logger) {
	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		return
	}

	switch msg.Type {
	case protocol.EvtRoomState:
		var state model.RoomState
		if json.Unmarshal(raw, &state) == nil {
			tracker.changed(state.CurrentIndex)
			ctrl.OnRoomState(state)
		}
	case protocol.EvtQueueUpdate:
		var state model.RoomState
		if json.Unmarshal(raw, &state) == nil {
			ctrl.OnQueueUpdate(state, tracker.changed(state.CurrentIndex))
		}
	case protocol.EvtPreparePlayback:
		var payload protocol.PreparePlaybackPayload
		if json.Unmarshal(raw, &payload) == nil {
			go ctrl.OnPreparePlayback(ctx, payload, nil)
		}
	case protocol.EvtSynchronizedPlay:
		var payload protocol.SynchronizedPlayPayload
		if json.Unmarshal(raw, &payload) == nil {
			ctrl.OnSynchronizedPlay(payload)
		}
	case protocol.EvtSyncTime:
		var payload protocol.SyncTimePayload
		if json.Unmarshal(raw, &payload) == nil {
			ctrl.OnSyncTime(payload)
		}
	case protocol.EvtPong:
		var payload protocol.PongPayload
		if json.Unmarshal(raw, &payload) == nil {
			ctrl.OnPong(payload)
		}
	default:
		logger.Warn("unhandled server message", "type", msg.Type)
	}
}
