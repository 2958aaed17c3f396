package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/welkom-home/welkom-presence/internal/coordinator"
	"github.com/welkom-home/welkom-presence/internal/model"
	"github.com/welkom-home/welkom-presence/internal/service"
	"github.com/welkom-home/welkom-presence/internal/zones"
)

type staticRefresher struct {
	snap *coordinator.Snapshot
}

func (r *staticRefresher) Refresh(_ context.Context, _ map[string]zones.Coordinates) (*coordinator.Snapshot, error) {
	return r.snap, nil
}

type noZones struct{}

func (noZones) Zones(context.Context) (map[string]zones.Coordinates, error) {
	return map[string]zones.Coordinates{}, nil
}

type countingPoller struct {
	triggered int
}

func (p *countingPoller) TriggerRefresh() { p.triggered++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *coordinator.Snapshot {
	snap := &coordinator.Snapshot{
		Homes:  map[string]coordinator.HomeData{},
		Rooms:  map[string]coordinator.RoomData{},
		People: map[string]coordinator.PersonData{},
		FetchedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
	home := coordinator.HomeData{}
	home.PeopleCount = 2
	home.People = []string{"Alice", "Unknown device"}
	home.KnownPeopleCount = 1
	home.KnownPeople = []string{"Alice"}
	home.UnknownPeopleCount = 1
	home.UnknownPeople = []string{"Unknown device"}
	snap.Homes["h1"] = home

	room := coordinator.RoomData{}
	room.PeopleCount = 1
	room.People = []string{"Alice"}
	room.KnownPeopleCount = 1
	room.KnownPeople = []string{"Alice"}
	snap.Rooms["r1"] = room

	snap.People["p1"] = coordinator.PersonData{
		Person:  model.Person{ID: "p1", DisplayName: "Alice"},
		Known:   true,
		HomeID:  "h1",
		RoomID:  "r1",
		State:   "Living Room",
		Present: true,
	}
	snap.UnknownPeople = []coordinator.PersonData{
		{Known: false, HomeID: "h1", State: "home"},
	}
	return snap
}

func newTestAPI(t *testing.T) (*API, *countingPoller) {
	t.Helper()
	svc := service.New(&staticRefresher{snap: testSnapshot()}, noZones{}, nil, testLogger())
	if err := svc.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce: %v", err)
	}
	poller := &countingPoller{}
	return New(svc, poller, testLogger()), poller
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api.Handler(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Data   struct {
			HasData bool `json:"has_data"`
			Stale   bool `json:"stale"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || !body.Data.HasData || body.Data.Stale {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestGetHomeAndZeroDefault(t *testing.T) {
	api, _ := newTestAPI(t)
	handler := api.Handler()

	rec := doRequest(t, handler, http.MethodGet, "/api/homes/h1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var home coordinator.HomeData
	if err := json.Unmarshal(rec.Body.Bytes(), &home); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if home.PeopleCount != 2 || home.KnownPeopleCount != 1 {
		t.Fatalf("home = %+v", home)
	}

	// An unseen home id yields the zero rollup, not a 404.
	rec = doRequest(t, handler, http.MethodGet, "/api/homes/nope")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var empty coordinator.HomeData
	if err := json.Unmarshal(rec.Body.Bytes(), &empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty.PeopleCount != 0 || empty.People != nil {
		t.Fatalf("empty home = %+v", empty)
	}
}

func TestGetRoom(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api.Handler(), http.MethodGet, "/api/rooms/r1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var room coordinator.RoomData
	if err := json.Unmarshal(rec.Body.Bytes(), &room); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if room.PeopleCount != 1 || room.KnownPeople[0] != "Alice" {
		t.Fatalf("room = %+v", room)
	}
}

func TestGetPerson(t *testing.T) {
	api, _ := newTestAPI(t)
	handler := api.Handler()

	rec := doRequest(t, handler, http.MethodGet, "/api/people/p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var person coordinator.PersonData
	if err := json.Unmarshal(rec.Body.Bytes(), &person); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if person.State != "Living Room" || !person.Present {
		t.Fatalf("person = %+v", person)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/people/ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetUnknownSlot(t *testing.T) {
	api, _ := newTestAPI(t)
	handler := api.Handler()

	rec := doRequest(t, handler, http.MethodGet, "/api/unknown/0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var person coordinator.PersonData
	if err := json.Unmarshal(rec.Body.Bytes(), &person); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if person.Known || person.State != "home" {
		t.Fatalf("unknown slot = %+v", person)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/unknown/5")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	rec = doRequest(t, handler, http.MethodGet, "/api/unknown/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListPeople(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doRequest(t, api.Handler(), http.MethodGet, "/api/people")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		People        map[string]coordinator.PersonData `json:"people"`
		UnknownPeople []coordinator.PersonData          `json:"unknown_people"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.People) != 1 || len(body.UnknownPeople) != 1 {
		t.Fatalf("people = %d, unknown = %d", len(body.People), len(body.UnknownPeople))
	}
}

func TestTriggerRefresh(t *testing.T) {
	api, poller := newTestAPI(t)
	rec := doRequest(t, api.Handler(), http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if poller.triggered != 1 {
		t.Fatalf("triggered = %d, want 1", poller.triggered)
	}
}

func TestStripIngressPrefix(t *testing.T) {
	api, _ := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/ingress/abc123/healthz", nil)
	req.Header.Set("X-Ingress-Path", "/ingress/abc123")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
