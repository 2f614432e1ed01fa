package protocol

import "time"

// Wire-visible timing constants (SPEC_FULL.md §6).
const (
	SyncInterval           = 100 * time.Millisecond
	ReadyTimeout           = 10000 * time.Millisecond
	PlayPauseCooldown      = 300 * time.Millisecond
	NavPrepareDelay        = 500 * time.Millisecond
	DriftSoftLow           = 0.3 // seconds, normal tolerance
	DriftSoftHigh          = 0.5 // seconds, adaptive tolerance after more than 2 consecutive corrections
	DriftHard              = 1.0 // seconds
	ClientResyncCooldown   = 2000 * time.Millisecond
	DegradedCooldown       = 5000 * time.Millisecond
	MaxConsecutiveResyncs  = 3
	PingInterval           = 5000 * time.Millisecond
	MinPrebufferSeconds    = 3.0
	PrebufferTimeout       = 10 * time.Second
	SoftCorrectionWindow   = 500 * time.Millisecond
	SoftCorrectionRateUp   = 1.10
	SoftCorrectionRateDown = 0.90
	TransitionWindow       = 3 * time.Second
	SynchronizedPlayExit   = 1 * time.Second
	DegradedResetWindow    = 10 * time.Second
)
