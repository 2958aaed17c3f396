// Package coordinator turns the live Welkom connection list into one
// immutable presence snapshot per refresh tick.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/welkom-home/welkom-presence/internal/model"
	"github.com/welkom-home/welkom-presence/internal/zones"
)

// StateHome is the sentinel state for a person who is at the primary
// home but not in any particular room. It doubles as the zone name of
// the host platform's own home zone.
const StateHome = "home"

const defaultSetupTimeout = 10 * time.Second

// RemoteClient is the slice of the Welkom client the coordinator needs.
type RemoteClient interface {
	Homes(ctx context.Context) (map[string]model.Home, error)
	People(ctx context.Context) (map[string]model.Person, error)
	PrimaryHome(ctx context.Context) (model.Home, error)
	ConnectedPeople(ctx context.Context) ([]model.ConnectedPerson, error)
}

type Coordinator struct {
	client       RemoteClient
	logger       *slog.Logger
	setupTimeout time.Duration
}

func New(client RemoteClient, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{client: client, logger: logger, setupTimeout: defaultSetupTimeout}
}

// SetSetupTimeout overrides the bound on the initial catalog fetch.
func (c *Coordinator) SetSetupTimeout(d time.Duration) {
	if d > 0 {
		c.setupTimeout = d
	}
}

// Setup performs the one-time bounded catalog fetch: homes and people
// are loaded jointly and the primary home is resolved. Any failure here
// is fatal for integration startup.
func (c *Coordinator) Setup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.setupTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.client.Homes(gctx)
		return err
	})
	g.Go(func() error {
		_, err := c.client.People(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("initial catalog fetch timed out after %s: %w", c.setupTimeout, err)
		}
		return err
	}

	_, err := c.client.PrimaryHome(ctx)
	return err
}

// Refresh runs one aggregation tick: fetch the live connection list,
// classify every connection, build the occupancy rollups, derive each
// person's state and resolve coordinates from the supplied zone mapping.
func (c *Coordinator) Refresh(ctx context.Context, zoneCoords map[string]zones.Coordinates) (*Snapshot, error) {
	conns, err := c.client.ConnectedPeople(ctx)
	if err != nil {
		return nil, err
	}
	primary, err := c.client.PrimaryHome(ctx)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(time.Now().UTC())

	type placement struct {
		data     PersonData
		known    bool
		personID string
	}
	placements := make([]placement, 0, len(conns))
	byState := map[string][]int{}

	for _, conn := range conns {
		home := primary
		if conn.Home != nil {
			home = *conn.Home
		}
		room := conn.Room
		atPrimary := home.SameAs(primary)

		var state string
		if atPrimary {
			state = StateHome
			if room != nil {
				state = room.DisplayName
			}
		} else {
			state = home.DisplayName
			if room != nil {
				state += ": " + room.DisplayName
			}
		}

		data := PersonData{
			Person:  conn.Person,
			Device:  conn.Connection.Device,
			Known:   conn.Known,
			HomeID:  home.ID,
			State:   state,
			Present: atPrimary,
		}
		if room != nil {
			data.RoomID = room.ID
		}

		index := len(placements)
		placements = append(placements, placement{data: data, known: conn.Known, personID: conn.Person.ID})
		stateKey := strings.ToLower(state)
		byState[stateKey] = append(byState[stateKey], index)

		homeData := snap.Homes[home.ID]
		homeData.add(conn.Person.DisplayName, conn.Known)
		snap.Homes[home.ID] = homeData

		// Rooms only roll up within the primary home; a connection in
		// another home counts as "at that home", room-less.
		if atPrimary && room != nil {
			roomData := snap.Rooms[room.ID]
			roomData.add(conn.Person.DisplayName, conn.Known)
			snap.Rooms[room.ID] = roomData
		}
	}

	for stateKey, indexes := range byState {
		coords, ok := zoneCoords[stateKey]
		if !ok {
			continue
		}
		lat, lon := coords.Latitude, coords.Longitude
		for _, index := range indexes {
			placements[index].data.Latitude = &lat
			placements[index].data.Longitude = &lon
		}
	}

	for _, p := range placements {
		if p.known {
			snap.People[p.personID] = p.data
		} else {
			snap.UnknownPeople = append(snap.UnknownPeople, p.data)
		}
	}

	return snap, nil
}
