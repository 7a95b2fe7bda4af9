// Package show holds the static record of the promoted performance and the
// act branding around it.  Nothing here is configurable at runtime.
package show

import (
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/om-adella-promo/internal/model"
)

// PosterURL is the externally hosted poster image.  It is referenced for
// display only and never fetched by the service.
const PosterURL = "https://euaoxfgshkszfpelbmev.supabase.co/storage/v1/object/public/adella/poster.jpeg"

// WITA is Central Indonesia Time, the zone of the venue.  A fixed zone keeps
// the start instant independent of the host tz database.
var WITA = time.FixedZone("WITA", 8*60*60)

var performers = []string{
	"Fira Azzahra",
	"Difarina Indra",
	"Cantika Nuswantoro",
	"Sabila Permata",
	"Lusyana Jelita",
	"Devinta Salatnaya",
	"Nurma Paejah",
}

// Current returns the upcoming show.  The performer slice is a fresh copy on
// every call.
func Current() model.Show {
	return model.Show{
		ID:         1,
		Title:      "Pasar Rakyat Sesetan Bali",
		Venue:      "Pasar Rakyat Sesetan",
		Address:    "Jl. Raya Sesetan, Denpasar - Bali",
		StartsAt:   time.Date(2026, time.February, 7, 19, 0, 0, 0, WITA),
		Performers: append([]string(nil), performers...),
		Category:   "Event Live Malam",
	}
}

// Page returns the branding and call-to-action links shown around the show.
func Page() model.Page {
	s := Current()
	return model.Page{
		Act:       "OM Adella",
		Tagline:   "The Real Dangdut Koplo",
		Subtitle:  "Special Performance All Artis",
		PosterURL: PosterURL,
		MapURL:    MapURL(s.Address),
		DateLabel: "Sabtu, 07 Februari 2026 · Malam",
		Links: []model.Link{
			{Label: "WhatsApp", URL: "https://wa.me/"},
			{Label: "Instagram", URL: "https://www.instagram.com/"},
		},
	}
}

// MapURL builds a Google Maps search link for a free-form address.
func MapURL(address string) string {
	q := strings.NewReplacer(",", "", " - ", " ").Replace(address)
	return "https://maps.google.com/?q=" + url.QueryEscape(q)
}
