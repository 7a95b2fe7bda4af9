package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// ErrNoCoordinates is returned by a NetworkLocator when the lookup answered
// but did not contain a usable coordinate pair.
var ErrNoCoordinates = errors.New("geo: lookup returned no coordinates")

// NetworkLocator resolves coarse coordinates for a client IP address.
type NetworkLocator interface {
	Locate(ctx context.Context, ip string) (Coordinates, error)
}

// IPAPIConfig configures the ipapi.co client.
type IPAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IPAPIClient looks addresses up against ipapi.co.
type IPAPIClient struct {
	baseURL string
	client  *http.Client
}

// ipapiResponse is the subset of the ipapi.co JSON body the client needs.
// Coordinates are pointers so that an absent field is distinguishable.
type ipapiResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// NewIPAPIClient returns a client for cfg.  Empty fields fall back to the
// public endpoint and a five second timeout.
func NewIPAPIClient(cfg IPAPIConfig) *IPAPIClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://ipapi.co"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPAPIClient{baseURL: base, client: &http.Client{Timeout: timeout}}
}

// Locate returns the coordinates ipapi.co associates with ip.  Loopback,
// private and unparsable addresses are looked up as the caller's own address.
func (c *IPAPIClient) Locate(ctx context.Context, ip string) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL(ip), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geo: ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Coordinates{}, fmt.Errorf("geo: ip lookup status %d", resp.StatusCode)
	}

	var body ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("geo: decode ip lookup: %w", err)
	}
	if body.Error {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrNoCoordinates, body.Reason)
	}
	// A zero coordinate counts as missing.
	if body.Latitude == nil || body.Longitude == nil || *body.Latitude == 0 || *body.Longitude == 0 {
		return Coordinates{}, ErrNoCoordinates
	}
	coords := Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}
	if !coords.Valid() {
		return Coordinates{}, ErrNoCoordinates
	}
	return coords, nil
}

func (c *IPAPIClient) lookupURL(ip string) string {
	if publicIP(ip) {
		return c.baseURL + "/" + ip + "/json/"
	}
	return c.baseURL + "/json/"
}

func publicIP(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsMulticast())
}
