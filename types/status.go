package types

// ---- Retained status payloads (status/<service>) ----

type AnimatorStatus struct {
	Hue     uint8  `json:"hue"`
	Frames  uint32 `json:"frames"`
	Skipped uint32 `json:"skipped"`
	Retries uint32 `json:"retries"`
	// Color is the last colour on the wire, 0xRRGGBB.
	Color   uint32 `json:"color"`
	LastErr string `json:"last_err,omitempty"`
}

// Link is the state reported for the network interface.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type NetStatus struct {
	Link     Link   `json:"link"`
	Mode     string `json:"mode"`
	Attempts uint32 `json:"attempts"`
	Error    string `json:"error,omitempty"`
}
