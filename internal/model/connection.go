package model

import "slices"

// Connection is one live network-presence record reported by the Welkom
// service.
type Connection struct {
	Summary string `json:"summary"`
	Known   bool   `json:"known"`

	ActiveIDs      []string `json:"active_ids"`
	KnownActiveIDs []string `json:"known_active_ids"`

	Network Network `json:"network"`
	Device  Device  `json:"device"`
	Person  *Person `json:"person,omitempty"`
	Role    Role    `json:"role"`
	Home    *Home   `json:"home,omitempty"`
	Room    *Room   `json:"room,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// SameConnection reports connection identity: two records describe the
// same connection iff they share a network and an identical active-id
// list, regardless of other fields.
func (c Connection) SameConnection(other Connection) bool {
	return c.Network.ID == other.Network.ID && slices.Equal(c.ActiveIDs, other.ActiveIDs)
}

func (c Connection) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Device.Validate(); err != nil {
		return err
	}
	if c.Person != nil {
		if err := c.Person.Validate(); err != nil {
			return err
		}
	}
	if c.Home != nil {
		if err := c.Home.Validate(); err != nil {
			return err
		}
	}
	if c.Room != nil {
		if err := c.Room.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ConnectedPerson is the denormalized per-tick fetch unit the aggregation
// engine consumes: a connection already resolved to a person, with
// optional home and room overrides.
type ConnectedPerson struct {
	Known bool `json:"known"`

	Person Person `json:"person"`
	Home   *Home  `json:"home,omitempty"`
	Room   *Room  `json:"room,omitempty"`
	Role   Role   `json:"role"`

	Connection Connection `json:"connection"`
}

func (cp ConnectedPerson) Validate() error {
	if err := cp.Person.Validate(); err != nil {
		return err
	}
	if cp.Home != nil {
		if err := cp.Home.Validate(); err != nil {
			return err
		}
	}
	if cp.Room != nil {
		if err := cp.Room.Validate(); err != nil {
			return err
		}
	}
	return cp.Connection.Validate()
}
