package solana

import "context"

// SlotNotification is one slotSubscribe update.
type SlotNotification struct {
	Slot   int64 `json:"slot"`
	Parent int64 `json:"parent"`
	Root   int64 `json:"root"`
}

// WSClient defines the Solana WebSocket interface used to tail new slots.
type WSClient interface {
	// SubscribeSlots subscribes to slot notifications. The channel is closed
	// when the subscription ends or the client shuts down.
	SubscribeSlots(ctx context.Context) (<-chan SlotNotification, error)

	// Close shuts down the client and all subscriptions.
	Close() error
}
