package model

import (
	"net/url"
	"strings"
)

// Room is a sub-location within a home.
type Room struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Attrs       IconAttrs `json:"attrs"`
}

func (r Room) Icon() string { return mdiIcon(r.Attrs.MDIIcon, "home-map-marker") }

// UniqueID is the stable entity key for this room.
func (r Room) UniqueID() string { return "room_" + r.ID }

// SameAs reports area identity. Two Room values describe the same room
// iff they share an id; two fetches of "the same" room produce equal but
// not identical values.
func (r Room) SameAs(other Room) bool { return r.ID == other.ID }

func (r Room) Validate() error {
	if r.ID == "" {
		return fieldError("room.id", "is required")
	}
	if r.DisplayName == "" {
		return fieldError("room.display_name", "is required")
	}
	return nil
}

// Wifi holds the home's guest network credentials.
type Wifi struct {
	SSID     string `json:"ssid,omitempty"`
	Password string `json:"password,omitempty"`
}

// Address is the home's postal address.
type Address struct {
	Street       string     `json:"street,omitempty"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	PostalCode   FlexString `json:"postal_code,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Country      string     `json:"country,omitempty"`
}

// MapsURL derives a Google Maps search link from the non-empty address
// parts, or empty when the address is blank.
func (a Address) MapsURL() string {
	parts := make([]string, 0, 6)
	for _, part := range []string{
		a.Street, a.Neighborhood, a.PostalCode.String(), a.City, a.State, a.Country,
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	query := strings.Join(parts, ", ")
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// LinkAttrs restricts a home link to an icon and an optional role filter.
type LinkAttrs struct {
	MDIIcon string   `json:"mdi_icon,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

// Link is a labeled URL shared with (a subset of roles in) the home.
type Link struct {
	Label string    `json:"label"`
	URL   string    `json:"url"`
	Attrs LinkAttrs `json:"attrs"`
}

func (l Link) Icon() string { return mdiIcon(l.Attrs.MDIIcon, "") }

// Roles returns the role ids this link is visible to; nil means everyone.
func (l Link) Roles() []string { return l.Attrs.Roles }

// DoorCodePolicy configures the home's door code and an optional dial
// prefix applied to whichever code ends up being used.
type DoorCodePolicy struct {
	Prefix string     `json:"prefix,omitempty"`
	Code   FlexString `json:"code,omitempty"`
}

// HomeAttrs is the rich attribute bag attached to a home.
type HomeAttrs struct {
	Links     []Link          `json:"links,omitempty"`
	Address   *Address        `json:"address,omitempty"`
	Wifi      *Wifi           `json:"wifi,omitempty"`
	DoorCode  *DoorCodePolicy `json:"door_code,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	MDIIcon   string          `json:"mdi_icon,omitempty"`
}

// Home is a physical premises tracked by the Welkom service.
type Home struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Connected   *bool     `json:"connected,omitempty"`
	Rooms       []Room    `json:"rooms,omitempty"`
	Attrs       HomeAttrs `json:"attrs"`
}

func (h Home) Icon() string { return mdiIcon(h.Attrs.MDIIcon, "home") }

// UniqueID is the stable entity key for this home.
func (h Home) UniqueID() string { return "home_" + h.ID }

func (h Home) AvatarURL() string { return h.Attrs.AvatarURL }

// SameAs reports area identity by id only, regardless of other fields.
func (h Home) SameAs(other Home) bool { return h.ID == other.ID }

// DoorCode resolves the effective door code for a visitor: the home's
// own code wins, then the person's personal code, prefixed with the
// home's configured prefix. Empty when the home has no door code policy
// or no code could be resolved.
func (h Home) DoorCode(person *Person) string {
	policy := h.Attrs.DoorCode
	if policy == nil {
		return ""
	}

	code := policy.Code.String()
	if code == "" && person != nil {
		code = person.Attrs.DoorCode.String()
	}
	if code == "" {
		return ""
	}
	return policy.Prefix + code
}

func (h Home) Validate() error {
	if h.ID == "" {
		return fieldError("home.id", "is required")
	}
	if h.DisplayName == "" {
		return fieldError("home.display_name", "is required")
	}
	for _, room := range h.Rooms {
		if err := room.Validate(); err != nil {
			return err
		}
	}
	return nil
}
