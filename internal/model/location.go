package model

import "time"

// Location source tags as stored in the locations table.
const (
	SourceDevice  = "device"
	SourceNetwork = "network"
)

// Location represents a single captured visitor position as stored in the
// `locations` table.  Rows are append-only; the service never updates or
// deletes them.
//
// Fields:
//  ID        – primary key identifier.
//  Latitude  – decimal degrees, -90..90.
//  Longitude – decimal degrees, -180..180.
//  Source    – SourceDevice or SourceNetwork.
//  CreatedAt – when the row was written (UTC).
type Location struct {
	ID        uint64    `json:"id"`         // locations.id
	Latitude  float64   `json:"latitude"`   // locations.latitude
	Longitude float64   `json:"longitude"`  // locations.longitude
	Source    string    `json:"source"`     // locations.source
	CreatedAt time.Time `json:"created_at"` // locations.created_at
}
