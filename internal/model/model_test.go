package model

import (
	"encoding/json"
	"testing"
)

func TestIconDefaults(t *testing.T) {
	person := Person{ID: "p1", DisplayName: "Douwe"}
	if person.Icon() != "mdi:account" {
		t.Fatalf("expected default person icon, got %s", person.Icon())
	}
	person.Attrs.MDIIcon = "account-tie"
	if person.Icon() != "mdi:account-tie" {
		t.Fatalf("expected icon override, got %s", person.Icon())
	}

	home := Home{ID: "h1", DisplayName: "Home"}
	if home.Icon() != "mdi:home" {
		t.Fatalf("expected default home icon, got %s", home.Icon())
	}
	room := Room{ID: "r1", DisplayName: "Kitchen"}
	if room.Icon() != "mdi:home-map-marker" {
		t.Fatalf("expected default room icon, got %s", room.Icon())
	}

	network := Network{ID: "n1", DisplayName: "LAN"}
	if network.Icon() != "" {
		t.Fatalf("expected no network icon, got %s", network.Icon())
	}
	network.Attrs.MDIIcon = "wifi"
	if network.Icon() != "mdi:wifi" {
		t.Fatalf("expected wifi icon, got %s", network.Icon())
	}
}

func TestUniqueIDs(t *testing.T) {
	if got := (Person{ID: "douwe"}).UniqueID(); got != "person_douwe" {
		t.Fatalf("person unique id: %s", got)
	}
	if got := (Home{ID: "main"}).UniqueID(); got != "home_main" {
		t.Fatalf("home unique id: %s", got)
	}
	if got := (Room{ID: "kitchen"}).UniqueID(); got != "room_kitchen" {
		t.Fatalf("room unique id: %s", got)
	}
}

func TestAreaIdentityByID(t *testing.T) {
	a := Home{ID: "h1", DisplayName: "Home"}
	b := Home{ID: "h1", DisplayName: "Renamed", Attrs: HomeAttrs{MDIIcon: "castle"}}
	if !a.SameAs(b) {
		t.Fatalf("homes with the same id must be the same area")
	}
	c := Home{ID: "h2", DisplayName: "Home"}
	if a.SameAs(c) {
		t.Fatalf("homes with different ids must differ")
	}

	r1 := Room{ID: "r1", DisplayName: "Kitchen"}
	r2 := Room{ID: "r1", DisplayName: "Cocina"}
	if !r1.SameAs(r2) {
		t.Fatalf("rooms with the same id must be the same area")
	}
}

func TestConnectionIdentity(t *testing.T) {
	base := Connection{
		Network:   Network{ID: "n1", DisplayName: "LAN"},
		ActiveIDs: []string{"aa", "bb"},
	}
	same := Connection{
		Summary:   "different summary",
		Network:   Network{ID: "n1", DisplayName: "Renamed"},
		ActiveIDs: []string{"aa", "bb"},
	}
	if !base.SameConnection(same) {
		t.Fatalf("expected identical network id and active ids to match")
	}

	otherNetwork := base
	otherNetwork.Network.ID = "n2"
	if base.SameConnection(otherNetwork) {
		t.Fatalf("expected different network ids to differ")
	}

	otherIDs := base
	otherIDs.ActiveIDs = []string{"bb", "aa"}
	if base.SameConnection(otherIDs) {
		t.Fatalf("expected reordered active ids to differ")
	}
}

func TestDoorCodeResolution(t *testing.T) {
	person := &Person{ID: "p1", DisplayName: "Douwe", Attrs: PersonAttrs{DoorCode: "9876"}}

	cases := map[string]struct {
		home     Home
		person   *Person
		expected string
	}{
		"no policy": {
			home:     Home{ID: "h1", DisplayName: "Home"},
			person:   person,
			expected: "",
		},
		"home code wins": {
			home: Home{ID: "h1", DisplayName: "Home", Attrs: HomeAttrs{
				DoorCode: &DoorCodePolicy{Code: "1234"},
			}},
			person:   person,
			expected: "1234",
		},
		"personal fallback with prefix": {
			home: Home{ID: "h1", DisplayName: "Home", Attrs: HomeAttrs{
				DoorCode: &DoorCodePolicy{Prefix: "#"},
			}},
			person:   person,
			expected: "#9876",
		},
		"policy without any code": {
			home: Home{ID: "h1", DisplayName: "Home", Attrs: HomeAttrs{
				DoorCode: &DoorCodePolicy{Prefix: "#"},
			}},
			person:   nil,
			expected: "",
		},
	}

	for name, tc := range cases {
		if got := tc.home.DoorCode(tc.person); got != tc.expected {
			t.Fatalf("%s: expected %q, got %q", name, tc.expected, got)
		}
	}
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var policy DoorCodePolicy
	if err := json.Unmarshal([]byte(`{"prefix":"*","code":4321}`), &policy); err != nil {
		t.Fatalf("unmarshal numeric code: %v", err)
	}
	if policy.Code.String() != "4321" {
		t.Fatalf("expected 4321, got %s", policy.Code)
	}
	if err := json.Unmarshal([]byte(`{"code":"0012"}`), &policy); err != nil {
		t.Fatalf("unmarshal string code: %v", err)
	}
	if policy.Code.String() != "0012" {
		t.Fatalf("expected leading zeros preserved, got %s", policy.Code)
	}
	if err := json.Unmarshal([]byte(`{"code":true}`), &policy); err == nil {
		t.Fatalf("expected error for boolean code")
	}
}

func TestAddressMapsURL(t *testing.T) {
	address := Address{
		Street:     "Main Street 1",
		PostalCode: "1234 AB",
		City:       "Amsterdam",
		Country:    "NL",
	}
	expected := "https://www.google.com/maps/search/?api=1&query=Main+Street+1%2C+1234+AB%2C+Amsterdam%2C+NL"
	if got := address.MapsURL(); got != expected {
		t.Fatalf("maps url mismatch:\n  expected %s\n  got      %s", expected, got)
	}
	if got := (Address{}).MapsURL(); got != "" {
		t.Fatalf("expected empty url for blank address, got %s", got)
	}
}

func TestMetadataPreservesUnknownFields(t *testing.T) {
	payload := []byte(`{
		"ip": "10.0.0.5",
		"mac": "AA:BB:CC:DD:EE:FF",
		"mac_is_private": true,
		"wifi_ssid": "welkom",
		"country": "NL",
		"signal": -61,
		"roaming": false,
		"nested": {"ignored": true}
	}`)

	var meta Metadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	if meta.IP != "10.0.0.5" || meta.MAC != "AA:BB:CC:DD:EE:FF" || !meta.MACIsPrivate || meta.WifiSSID != "welkom" {
		t.Fatalf("known fields lost: %+v", meta)
	}
	if meta.Extra["country"] != "NL" {
		t.Fatalf("expected country preserved, got %v", meta.Extra["country"])
	}
	if meta.Extra["signal"] != float64(-61) {
		t.Fatalf("expected signal preserved, got %v", meta.Extra["signal"])
	}
	if meta.Extra["roaming"] != false {
		t.Fatalf("expected roaming preserved, got %v", meta.Extra["roaming"])
	}
	if _, ok := meta.Extra["nested"]; ok {
		t.Fatalf("expected non-primitive extras dropped")
	}

	out, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal(out, &roundTrip); err != nil {
		t.Fatalf("re-decode metadata: %v", err)
	}
	if roundTrip["country"] != "NL" {
		t.Fatalf("expected extras to survive re-encoding, got %v", roundTrip)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := map[string]error{
		"person":  Person{DisplayName: "No ID"}.Validate(),
		"home":    Home{ID: "h1"}.Validate(),
		"room":    Room{DisplayName: "No ID"}.Validate(),
		"network": Network{ID: "n1"}.Validate(),
		"device":  Device{DisplayName: "ok", Type: "submarine"}.Validate(),
	}
	for name, err := range cases {
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	nestedRoom := Home{ID: "h1", DisplayName: "Home", Rooms: []Room{{ID: "r1"}}}
	if nestedRoom.Validate() == nil {
		t.Fatalf("expected nested room validation error")
	}
}
