// Package model holds the typed representation of the Welkom wire format
// plus the derived display fields the presentation layer depends on.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// mdiIcon renders a Material Design icon reference. An empty override
// falls back to the given default; when both are empty there is no icon.
func mdiIcon(override, fallback string) string {
	name := override
	if name == "" {
		name = fallback
	}
	if name == "" {
		return ""
	}
	return "mdi:" + name
}

// IconAttrs is the common attribute bag carrying only an icon override.
type IconAttrs struct {
	MDIIcon string `json:"mdi_icon,omitempty"`
}

// FlexString accepts either a JSON string or a JSON number. The Welkom
// service stores door codes and postal codes either way depending on how
// they were entered.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", trimmed)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
