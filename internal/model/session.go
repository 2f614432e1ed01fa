package model

import "time"

// Session is one connected client, as tracked by the Session Registry.
type Session struct {
	ID         string    `json:"sessionId"`
	LatencyMs  int64     `json:"latencyMs"`
	LastPingAt time.Time `json:"-"`
	Ready      bool      `json:"ready"`
}
