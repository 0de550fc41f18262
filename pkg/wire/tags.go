package wire

// Outer family tags: one is always the first string in a frame.
const (
	FamilyControl = "~" // coordinator-control
	FamilyPayload = "-" // application payload (includes clock sync)
)

// Coordinator-control sub-tags (spec.md §6.2).
const (
	SubNegotiate = "Negotiate"
	SubConfirm   = "Confirm"
	SubSwitch    = "Switch"
	SubPing      = "Ping"
	SubPeers     = "Peers"
)

// Clock-sync payload sub-tags (spec.md §6.2).
const (
	SubSync    = "Sync"
	SubRespond = "Respond"
)
