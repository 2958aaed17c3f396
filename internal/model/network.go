package model

import "encoding/json"

// Network is the access network a device connected through.
type Network struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Attrs       IconAttrs `json:"attrs"`
}

// Icon returns the network's mdi icon, or empty when none is configured.
func (n Network) Icon() string { return mdiIcon(n.Attrs.MDIIcon, "") }

func (n Network) Validate() error {
	if n.ID == "" {
		return fieldError("network.id", "is required")
	}
	if n.DisplayName == "" {
		return fieldError("network.display_name", "is required")
	}
	return nil
}

// Metadata is the network environment attached to a connection. Fields
// the service adds in the future are preserved verbatim in Extra rather
// than rejected.
type Metadata struct {
	IP           string `json:"ip,omitempty"`
	MAC          string `json:"mac,omitempty"`
	MACIsPrivate bool   `json:"mac_is_private,omitempty"`
	WifiSSID     string `json:"wifi_ssid,omitempty"`

	Extra map[string]any `json:"-"`
}

var metadataKnownKeys = map[string]struct{}{
	"ip": {}, "mac": {}, "mac_is_private": {}, "wifi_ssid": {},
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := map[string]any{}
	for key, value := range raw {
		if _, ok := metadataKnownKeys[key]; ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			continue
		}
		switch decoded.(type) {
		case string, float64, bool:
			extra[key] = decoded
		}
	}

	*m = Metadata(known)
	if len(extra) > 0 {
		m.Extra = extra
	}
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	merged := map[string]any{}
	for key, value := range m.Extra {
		merged[key] = value
	}
	if m.IP != "" {
		merged["ip"] = m.IP
	}
	if m.MAC != "" {
		merged["mac"] = m.MAC
	}
	if m.MACIsPrivate {
		merged["mac_is_private"] = m.MACIsPrivate
	}
	if m.WifiSSID != "" {
		merged["wifi_ssid"] = m.WifiSSID
	}
	return json.Marshal(merged)
}
