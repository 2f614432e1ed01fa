package coordinator

import "github.com/xGuatx/youtube-sync-multi-client/internal/protocol"

// Ping handles a ping(clientTs) command: records the session's latency
// (latencyMs = (nowServer - clientTs)/2) and replies with pong. Invalid
// measurements (negative implied round-trip, or latency outside
// [0,10000]ms per I5) are dropped silently and logged (§7 Protocol
// class).
func (c *Coordinator) Ping(sessionID string, clientTs int64) {
	now := c.clock.Now()
	nowMs := now.UnixMilli()
	rtt := nowMs - clientTs

	if err := c.sessions.RecordLatency(sessionID, rtt, now); err != nil {
		c.logger.Warn("command dropped", "cmd", "ping", "session", sessionID, "reason", err)
		return
	}

	session, ok := c.sessions.Get(sessionID)
	if !ok {
		return
	}

	c.broadcaster.Send(sessionID, serverMsg(protocol.EvtPong, protocol.PongPayload{
		ClientTimestamp: clientTs,
		ServerTimestamp: nowMs,
		LatencyMs:       session.LatencyMs,
	}))
}
