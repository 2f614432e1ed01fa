package controller

import "github.com/xGuatx/youtube-sync-multi-client/internal/protocol"

// SendPing emits a ping carrying the client's current monotonic
// milliseconds. Call on a PingInterval (5s) timer.
func (c *Controller) SendPing() {
	clientTs := c.now().UnixMilli()
	c.transport.Send(protocol.CmdPing, protocol.PingPayload{ClientTs: clientTs})
}

// OnPong applies a pong reply: stores latencyMs and records the
// server-clock offset (serverTs - nowClient). OnSynchronizedPlay does
// not read the offset; it compensates with the client/server timestamp
// difference and latencyMs.
func (c *Controller) OnPong(payload protocol.PongPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencyMs = payload.LatencyMs
	nowClientMs := c.now().UnixMilli()
	c.serverTimeOffset = payload.ServerTimestamp - nowClientMs
}

// LatencyMs returns the last-measured one-way latency.
func (c *Controller) LatencyMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latencyMs
}
