package model

import "time"

// Show represents the single upcoming performance promoted by the page.
// The record is a compile-time constant owned by package show; it is never
// loaded from or written to the database.
//
// Fields:
//  ID         – stable identifier of the show.
//  Title      – event title displayed on the event card.
//  Venue      – venue name.
//  Address    – free-form venue address used for the map link.
//  StartsAt   – scheduled start instant; the countdown target.
//  Performers – line-up in billing order.
//  Category   – short label describing the kind of event.
type Show struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Venue      string    `json:"venue"`
	Address    string    `json:"address"`
	StartsAt   time.Time `json:"starts_at"`
	Performers []string  `json:"performers"`
	Category   string    `json:"category"`
}

// Link is a call-to-action rendered as a button on the page.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Page holds the act branding that surrounds the show record.
type Page struct {
	Act       string `json:"act"`
	Tagline   string `json:"tagline"`
	Subtitle  string `json:"subtitle"`
	PosterURL string `json:"poster_url"`
	MapURL    string `json:"map_url"`
	DateLabel string `json:"date_label"`
	Links     []Link `json:"links"`
}
