package types

import "ledfw-go/bus"

var (
	TopicConfigAnimator  = bus.T("config", "animator")
	TopicConfigHeartbeat = bus.T("config", "heartbeat")
	TopicStatusAnimator  = bus.T("status", "animator")
	TopicStatusNet       = bus.T("status", "net")
)
