// Package zones supplies the host platform's named-zone coordinates.
// The provider re-reads the zone states on every call; zone data is
// owned by the host and never cached here.
package zones

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Coordinates is a zone's geographic point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Provider fetches zone entities from the host platform's REST API and
// turns them into a lowercased zone-name to coordinates mapping. The
// platform's own "home" zone is keyed under the sentinel name "home".
type Provider struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewProvider(baseURL, token string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Disabled is the zone source used when no supervisor token is
// configured: every tick runs without coordinate enrichment.
type Disabled struct{}

func (Disabled) Zones(context.Context) (map[string]Coordinates, error) {
	return nil, nil
}

type zoneState struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Zones returns the current zone-name to coordinates mapping. Zones that
// are unavailable or lack either coordinate are skipped.
func (p *Provider) Zones(ctx context.Context) (map[string]Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/states", nil)
	if err != nil {
		return nil, err
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("zone states fetch status %d: %s", resp.StatusCode, string(body))
	}

	var states []zoneState
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("decode zone states: %w", err)
	}
	return mapZones(states), nil
}

func mapZones(states []zoneState) map[string]Coordinates {
	result := make(map[string]Coordinates)
	for _, state := range states {
		if !strings.HasPrefix(state.EntityID, "zone.") {
			continue
		}
		if state.State == "unavailable" {
			continue
		}
		lat, latOK := floatAttr(state.Attributes, "latitude")
		lon, lonOK := floatAttr(state.Attributes, "longitude")
		if !latOK || !lonOK {
			continue
		}

		name := strings.TrimPrefix(state.EntityID, "zone.")
		if friendly, ok := state.Attributes["friendly_name"].(string); ok && friendly != "" {
			name = friendly
		}
		// The platform's home zone is addressed by the "home" state
		// sentinel, not its display name.
		if state.EntityID == "zone.home" {
			name = "home"
		}
		result[strings.ToLower(name)] = Coordinates{Latitude: lat, Longitude: lon}
	}
	return result
}

func floatAttr(attrs map[string]any, key string) (float64, bool) {
	value, ok := attrs[key].(float64)
	if !ok || value == 0 {
		return 0, false
	}
	return value, true
}
