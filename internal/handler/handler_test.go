package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
	"github.com/iliyamo/om-adella-promo/internal/geo"
	"github.com/iliyamo/om-adella-promo/internal/middleware"
	"github.com/iliyamo/om-adella-promo/internal/model"
	"github.com/iliyamo/om-adella-promo/internal/repository"
	"github.com/iliyamo/om-adella-promo/internal/show"
	"github.com/iliyamo/om-adella-promo/internal/utils"
	"github.com/iliyamo/om-adella-promo/internal/web"
)

var (
	target    = time.Date(2026, 2, 7, 19, 0, 0, 0, time.UTC)
	twoBefore = time.Date(2026, 2, 5, 19, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestHealth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("Health() = %d %q", rec.Code, rec.Body.String())
	}
}

func TestReady_NoBackends(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	h := &ReadyHandler{}
	if err := h.Ready(e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"store":"disabled"`) {
		t.Fatalf("Ready() body = %s", rec.Body.String())
	}
}

func TestCountdownSnapshot(t *testing.T) {
	e := echo.New()
	h := &CountdownHandler{Target: target, Clock: fixedClock(twoBefore)}
	rec := httptest.NewRecorder()
	if err := h.Snapshot(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/countdown", nil), rec)); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	var got countdownResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Remaining != (countdown.Remaining{Days: 2}) {
		t.Fatalf("Snapshot() = %+v, want 2 days", got.Remaining)
	}
	if !got.Target.Equal(target) {
		t.Fatalf("Snapshot() target = %v, want %v", got.Target, target)
	}
}

func TestCountdownStream(t *testing.T) {
	ticks := []time.Time{target.Add(-2 * time.Second), target.Add(-time.Second), target}
	i := 0
	clock := func() time.Time {
		now := ticks[i]
		if i < len(ticks)-1 {
			i++
		}
		return now
	}

	e := echo.New()
	h := &CountdownHandler{Target: target, Clock: clock, Interval: time.Millisecond}
	rec := httptest.NewRecorder()
	if err := h.Stream(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/countdown/stream", nil), rec)); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if n := strings.Count(body, "event: tick\n"); n != 2 {
		t.Errorf("tick events = %d, want 2\n%s", n, body)
	}
	if !strings.HasSuffix(body, "event: elapsed\ndata: {\"days\":0,\"hours\":0,\"minutes\":0,\"seconds\":0,\"elapsed\":true}\n\n") {
		t.Errorf("stream did not end with the elapsed event:\n%s", body)
	}
}

func TestShowHandler(t *testing.T) {
	e := echo.New()
	h := &ShowHandler{Show: show.Current(), Page: show.Page()}
	rec := httptest.NewRecorder()
	if err := h.GetShow(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/show", nil), rec)); err != nil {
		t.Fatalf("GetShow() error = %v", err)
	}
	var body struct {
		Show model.Show `json:"show"`
		Page model.Page `json:"page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Show.Title != "Pasar Rakyat Sesetan Bali" || len(body.Show.Performers) != 7 || body.Page.Act != "OM Adella" {
		t.Fatalf("GetShow() body = %+v", body)
	}
}

func TestPageIndex(t *testing.T) {
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	e := echo.New()
	e.Renderer = renderer

	h := &PageHandler{
		Show:          show.Current(),
		Page:          show.Page(),
		TicketSecret:  "secret",
		TicketTTL:     time.Minute,
		DeviceTimeout: 8 * time.Second,
		DeviceMaxAge:  time.Minute,
		Clock:         fixedClock(show.Current().StartsAt.Add(-48 * time.Hour)),
	}
	rec := httptest.NewRecorder()
	if err := h.Index(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"OM Adella",
		"Pasar Rakyat Sesetan Bali",
		"Nurma Paejah",
		`id="cd-days">02<`,
		show.PosterURL,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}

	// html/template pads numbers in script context with spaces.
	if !regexp.MustCompile(`timeout:\s*8000\s*,\s*maximumAge:\s*60000`).MatchString(body) {
		t.Error("geolocation options were not rendered from the device settings")
	}

	start := strings.Index(body, `data-ticket="`) + len(`data-ticket="`)
	end := strings.Index(body[start:], `"`)
	if _, err := utils.ParseCaptureTicket("secret", body[start:start+end]); err != nil {
		t.Fatalf("rendered ticket does not verify: %v", err)
	}
}

func TestPageIndex_Elapsed(t *testing.T) {
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	e := echo.New()
	e.Renderer = renderer
	h := &PageHandler{Show: show.Current(), Page: show.Page(), TicketSecret: "secret", TicketTTL: time.Minute,
		Clock: fixedClock(show.Current().StartsAt.Add(time.Hour))}

	rec := httptest.NewRecorder()
	if err := h.Index(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), `id="countdown" hidden`) {
		t.Fatal("countdown section should be hidden once the show started")
	}
}

type stubLocator struct {
	coords geo.Coordinates
	err    error
}

func (s stubLocator) Locate(context.Context, string) (geo.Coordinates, error) { return s.coords, s.err }

type memStore struct{ rows []model.Location }

func (m *memStore) Insert(_ context.Context, l *model.Location) error {
	l.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, *l)
	return nil
}

func newCaptureServer(t *testing.T, loc geo.NetworkLocator, store *memStore) (*echo.Echo, string) {
	t.Helper()
	e := echo.New()
	h := &LocationHandler{
		Capturer: &geo.Capturer{Network: loc, Store: store},
		Tickets:  repository.NewTicketRepo(nil),
	}
	e.POST("/v1/locations", h.Capture, middleware.CaptureTicket("secret"))

	ticket, err := utils.NewCaptureTicket("secret", time.Minute)
	if err != nil {
		t.Fatalf("NewCaptureTicket() error = %v", err)
	}
	return e, ticket.Token
}

func postCapture(e *echo.Echo, ticket, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/locations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.TicketHeader, ticket)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCapture_DeviceThenReplay(t *testing.T) {
	store := &memStore{}
	e, ticket := newCaptureServer(t, stubLocator{err: errors.New("unused")}, store)

	rec := postCapture(e, ticket, `{"fix":{"latitude":-8.69,"longitude":115.21}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"done","source":"device"}` {
		t.Fatalf("body = %s", got)
	}

	rec = postCapture(e, ticket, `{"fix":{"latitude":-8.69,"longitude":115.21}}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("replay status = %d, want 409", rec.Code)
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want exactly 1", len(store.rows))
	}
}

func TestCapture_DeniedFallsBackToNetwork(t *testing.T) {
	store := &memStore{}
	e, ticket := newCaptureServer(t, stubLocator{coords: geo.Coordinates{Latitude: -8.65, Longitude: 115.22}}, store)

	rec := postCapture(e, ticket, `{"reason":"denied"}`)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"done","source":"network"}` {
		t.Fatalf("body = %s", got)
	}
	if len(store.rows) != 1 || store.rows[0].Source != model.SourceNetwork {
		t.Fatalf("rows = %+v", store.rows)
	}
}

func TestCapture_ReasonOverridesFix(t *testing.T) {
	store := &memStore{}
	e, ticket := newCaptureServer(t, stubLocator{coords: geo.Coordinates{Latitude: -8.65, Longitude: 115.22}}, store)

	rec := postCapture(e, ticket, `{"reason":"denied","fix":{"latitude":-8.69,"longitude":115.21}}`)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"done","source":"network"}` {
		t.Fatalf("body = %s", got)
	}
	if len(store.rows) != 1 || store.rows[0].Source != model.SourceNetwork || store.rows[0].Latitude != -8.65 {
		t.Fatalf("rows = %+v, want the network fix", store.rows)
	}
}

func TestCapture_TotalFailure(t *testing.T) {
	store := &memStore{}
	e, ticket := newCaptureServer(t, stubLocator{err: geo.ErrNoCoordinates}, store)

	rec := postCapture(e, ticket, `{"reason":"unsupported"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"error"}` {
		t.Fatalf("body = %s", got)
	}
	if len(store.rows) != 0 {
		t.Fatalf("rows = %+v, want none", store.rows)
	}
}

func TestCapture_RejectsBadRequests(t *testing.T) {
	e, ticket := newCaptureServer(t, stubLocator{}, &memStore{})

	if rec := postCapture(e, "", `{}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("no ticket status = %d, want 401", rec.Code)
	}
	if rec := postCapture(e, ticket, `{"fix":`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

type fakeLister struct {
	rows      []*model.Location
	lastLimit int
}

func (f *fakeLister) ListRecent(_ context.Context, limit int) ([]*model.Location, error) {
	f.lastLimit = limit
	return f.rows, nil
}

func (f *fakeLister) CountBySource(context.Context) (map[string]int, error) {
	return map[string]int{model.SourceNetwork: len(f.rows)}, nil
}

func TestAdminListLocations(t *testing.T) {
	lister := &fakeLister{rows: []*model.Location{{ID: 1, Source: model.SourceNetwork}}}
	h := &AdminHandler{Locations: lister}
	e := echo.New()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/locations?limit=9999", nil)
	if err := h.ListLocations(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if lister.lastLimit != 500 {
		t.Errorf("limit = %d, want clamped to 500", lister.lastLimit)
	}
	if !strings.Contains(rec.Body.String(), `"totals":{"network":1}`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPromoQR(t *testing.T) {
	h := &PromoHandler{Show: show.Current(), Page: show.Page(), PublicURL: "https://example.com/"}
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := h.QR(e.NewContext(httptest.NewRequest(http.MethodGet, "/qr.png", nil), rec)); err != nil {
		t.Fatalf("QR() error = %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != "image/png" || rec.Body.Len() == 0 {
		t.Fatalf("QR() content-type = %q, %d bytes", rec.Header().Get(echo.HeaderContentType), rec.Body.Len())
	}
}
