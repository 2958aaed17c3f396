package coordinator

import (
	"time"

	"github.com/welkom-home/welkom-presence/internal/model"
)

// AreaData is the per-area occupancy rollup for one refresh tick. The
// zero value means "nobody here" and is what consumers get for areas
// without any current connection.
type AreaData struct {
	PeopleCount int      `json:"people_count"`
	People      []string `json:"people"`

	KnownPeopleCount int      `json:"known_people_count"`
	KnownPeople      []string `json:"known_people"`

	UnknownPeopleCount int      `json:"unknown_people_count"`
	UnknownPeople      []string `json:"unknown_people"`
}

func (a *AreaData) add(displayName string, known bool) {
	a.PeopleCount++
	a.People = append(a.People, displayName)
	if known {
		a.KnownPeopleCount++
		a.KnownPeople = append(a.KnownPeople, displayName)
	} else {
		a.UnknownPeopleCount++
		a.UnknownPeople = append(a.UnknownPeople, displayName)
	}
}

// HomeData is the occupancy rollup for a home.
type HomeData struct {
	AreaData
}

// RoomData is the occupancy rollup for a room in the primary home.
type RoomData struct {
	AreaData
}

// PersonData is the derived per-person record for the current tick.
type PersonData struct {
	Person model.Person `json:"person"`
	Device model.Device `json:"device"`
	Known  bool         `json:"known"`

	HomeID string `json:"home_id"`
	RoomID string `json:"room_id,omitempty"`

	// State is the display string for the person's location: a room
	// name, the "home" sentinel, or another home's display name.
	State string `json:"state"`

	// Present reports whether the person is at the primary home.
	Present bool `json:"present"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Snapshot is the immutable result of one refresh tick. A new Snapshot
// fully replaces the previous one; consumers never see partial state.
type Snapshot struct {
	Homes map[string]HomeData `json:"homes"`
	Rooms map[string]RoomData `json:"rooms"`

	// People holds known people keyed by person id.
	People map[string]PersonData `json:"people"`

	// UnknownPeople lists unrecognized connections in input order.
	// Downstream slot entities rely on positional stability.
	UnknownPeople []PersonData `json:"unknown_people"`

	FetchedAt time.Time `json:"fetched_at"`
}

func newSnapshot(fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		Homes:     map[string]HomeData{},
		Rooms:     map[string]RoomData{},
		People:    map[string]PersonData{},
		FetchedAt: fetchedAt,
	}
}

// Home returns the occupancy rollup for a home id. Missing keys mean
// zero occupancy, not an error.
func (s *Snapshot) Home(id string) HomeData {
	if s == nil {
		return HomeData{}
	}
	return s.Homes[id]
}

// Room returns the occupancy rollup for a room id, zero-valued when the
// room has nobody in it this tick.
func (s *Snapshot) Room(id string) RoomData {
	if s == nil {
		return RoomData{}
	}
	return s.Rooms[id]
}

// Person returns the record for a known person id; ok is false when the
// person is not currently connected.
func (s *Snapshot) Person(id string) (PersonData, bool) {
	if s == nil {
		return PersonData{}, false
	}
	data, ok := s.People[id]
	return data, ok
}

// Unknown returns the unknown-person record at the given slot index.
func (s *Snapshot) Unknown(index int) (PersonData, bool) {
	if s == nil || index < 0 || index >= len(s.UnknownPeople) {
		return PersonData{}, false
	}
	return s.UnknownPeople[index], true
}
