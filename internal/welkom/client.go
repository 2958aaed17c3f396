// Package welkom is the read-only client for the remote Welkom presence
// service. The home, people and self catalogs are fetched once per
// client lifetime; the live connection list is re-fetched on every call.
package welkom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/welkom-home/welkom-presence/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client wraps the Welkom base URL and the stable client identifier this
// integration instance is registered under.
type Client struct {
	id      string
	baseURL string
	homeID  string
	logger  *slog.Logger

	mu      sync.Mutex
	session *http.Client
	me      *model.Connection
	homes   map[string]model.Home
	people  map[string]model.Person
	primary *model.Home
}

// NewClient creates a Welkom client. homeID may be empty when the
// account has exactly one home.
func NewClient(id, baseURL, homeID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		id:      strings.TrimSpace(id),
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		homeID:  strings.TrimSpace(homeID),
		logger:  logger,
	}
}

// ID returns the configured client identifier.
func (c *Client) ID() string { return c.id }

// UniqueID is the stable entity key for this client instance.
func (c *Client) UniqueID() string { return "client_" + c.id }

// httpSession returns the lazily created persistent HTTP session.
func (c *Client) httpSession() *http.Client {
	if c.session == nil {
		c.session = &http.Client{Timeout: defaultTimeout}
	}
	return c.session
}

// Close releases the client's idle connections. In-flight requests are
// cancelled through their contexts, not here.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.CloseIdleConnections()
	}
}

// Me returns the service's view of this client's own connection.
// Memoized for the client's lifetime.
func (c *Client) Me(ctx context.Context) (model.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.me == nil {
		var conn model.Connection
		if err := c.getJSON(ctx, "/api/me", "me", &conn); err != nil {
			return model.Connection{}, err
		}
		if err := conn.Validate(); err != nil {
			return model.Connection{}, &model.DecodeError{Resource: "me", Err: err}
		}
		c.me = &conn
	}
	return *c.me, nil
}

// Homes returns the home catalog keyed by home id. Memoized for the
// client's lifetime.
func (c *Client) Homes(ctx context.Context) (map[string]model.Home, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.homesLocked(ctx)
}

func (c *Client) homesLocked(ctx context.Context) (map[string]model.Home, error) {
	if c.homes == nil {
		var items []model.Home
		if err := c.getJSON(ctx, "/api/homes", "homes", &items); err != nil {
			return nil, err
		}
		homes := make(map[string]model.Home, len(items))
		for _, home := range items {
			if err := home.Validate(); err != nil {
				return nil, &model.DecodeError{Resource: "homes", Err: err}
			}
			homes[home.ID] = home
		}
		c.homes = homes
	}
	return c.homes, nil
}

// People returns the person catalog keyed by person id. Memoized for the
// client's lifetime.
func (c *Client) People(ctx context.Context) (map[string]model.Person, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.people == nil {
		var items []model.Person
		if err := c.getJSON(ctx, "/api/people", "people", &items); err != nil {
			return nil, err
		}
		people := make(map[string]model.Person, len(items))
		for _, person := range items {
			if err := person.Validate(); err != nil {
				return nil, &model.DecodeError{Resource: "people", Err: err}
			}
			people[person.ID] = person
		}
		c.people = people
	}
	return c.people, nil
}

// ConnectedPeople returns the live connection list. Never cached: the
// list represents current state and goes stale between polls.
func (c *Client) ConnectedPeople(ctx context.Context) ([]model.ConnectedPerson, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var items []model.ConnectedPerson
	if err := c.getJSON(ctx, "/api/homes/people", "connected people", &items); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, &model.DecodeError{Resource: "connected people", Err: err}
		}
	}
	return items, nil
}

// PrimaryHome resolves which home this integration instance reports on:
// the configured home id if one is set, otherwise the sole home. Any
// other situation is a configuration error enumerating the available
// home ids. The resolution is memoized; the home set does not change
// within a session.
func (c *Client) PrimaryHome(ctx context.Context) (model.Home, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary == nil {
		homes, err := c.homesLocked(ctx)
		if err != nil {
			return model.Home{}, err
		}

		var home model.Home
		switch {
		case c.homeID != "":
			found, ok := homes[c.homeID]
			if !ok {
				return model.Home{}, &ConfigError{HomeID: c.homeID, Available: homeIDs(homes)}
			}
			home = found
		case len(homes) == 1:
			for _, only := range homes {
				home = only
			}
		default:
			return model.Home{}, &ConfigError{Available: homeIDs(homes)}
		}
		c.primary = &home
	}
	return *c.primary, nil
}

// Rooms returns the primary home's rooms keyed by room id.
func (c *Client) Rooms(ctx context.Context) (map[string]model.Room, error) {
	home, err := c.PrimaryHome(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make(map[string]model.Room, len(home.Rooms))
	for _, room := range home.Rooms {
		rooms[room.ID] = room
	}
	return rooms, nil
}

func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpSession().Do(req)
	if err != nil {
		return fmt.Errorf("welkom request failed for %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.DecodeError{Resource: resource, Err: err}
	}
	return nil
}

func homeIDs(homes map[string]model.Home) []string {
	ids := make([]string, 0, len(homes))
	for id := range homes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
