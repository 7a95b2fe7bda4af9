package geo

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/om-adella-promo/internal/model"
	"github.com/iliyamo/om-adella-promo/internal/queue"
)

// LocationStore persists a captured location.
type LocationStore interface {
	Insert(ctx context.Context, loc *model.Location) error
}

// Publisher announces a captured location to downstream consumers.
type Publisher func(ctx context.Context, ev queue.LocationCapturedEvent) error

// Capturer runs capture attempts.  Store and Publish are optional; their
// failures are logged and never change the outcome of an attempt.
type Capturer struct {
	Network NetworkLocator
	Store   LocationStore
	Publish Publisher
	// WriteTimeout bounds the store write and the publish.  Zero means 5s.
	WriteTimeout time.Duration
	Now          func() time.Time
}

// Capture settles one attempt: the device fix when usable, else a network
// lookup for clientIP, else failure.  The device fix is taken as reported;
// its age is bounded by the browser's maximumAge.  At most one location is written.
func (c *Capturer) Capture(ctx context.Context, report DeviceReport, clientIP string) *Attempt {
	a := NewAttempt()
	now := c.now()

	coords, ok := report.usable()
	src := SourceDevice
	if !ok {
		src = SourceNetwork
		if c.Network == nil {
			_ = a.Fail()
			return a
		}
		var err error
		coords, err = c.Network.Locate(ctx, clientIP)
		if err != nil {
			log.Printf("geo: network fallback failed (device reason=%q): %v", report.Reason, err)
			_ = a.Fail()
			return a
		}
	}

	c.save(ctx, coords, src, now)
	_ = a.Succeed(src)
	return a
}

func (c *Capturer) save(ctx context.Context, coords Coordinates, src Source, now time.Time) {
	timeout := c.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	// The write outlives a client that disconnects right after posting.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	loc := &model.Location{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Source:    string(src),
		CreatedAt: now.UTC(),
	}
	if c.Store != nil {
		if err := c.Store.Insert(wctx, loc); err != nil {
			log.Printf("geo: store location: %v", err)
		}
	}
	if c.Publish != nil {
		ev := queue.LocationCapturedEvent{
			LocationID: loc.ID,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			Source:     loc.Source,
			CapturedAt: loc.CreatedAt.Format(time.RFC3339),
		}
		if err := c.Publish(wctx, ev); err != nil {
			log.Printf("geo: publish location: %v", err)
		}
	}
}

func (c *Capturer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
