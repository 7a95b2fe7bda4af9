// Package queue defines message payloads exchanged over the message broker.
package queue

// LocationCapturedQueue is the durable queue carrying LocationCapturedEvent.
const LocationCapturedQueue = "location.captured"

// LocationCapturedEvent is published after a visitor location was captured.
// It carries the full record so consumers never need to query the store.
type LocationCapturedEvent struct {
	LocationID uint64  `json:"location_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Source     string  `json:"source"`
	CapturedAt string  `json:"captured_at"`
}
