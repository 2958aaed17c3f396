package model

// PersonAttrs carries optional contact details and display overrides for
// a registered person.
type PersonAttrs struct {
	Phone    string     `json:"phone,omitempty"`
	Email    string     `json:"email,omitempty"`
	DoorCode FlexString `json:"door_code,omitempty"`
	MDIIcon  string     `json:"mdi_icon,omitempty"`
}

// Person is a registered individual the Welkom service recognizes by
// device signatures.
type Person struct {
	Known       bool        `json:"known"`
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	Attrs       PersonAttrs `json:"attrs"`
}

// Icon always resolves: unconfigured people fall back to the generic
// account icon.
func (p Person) Icon() string { return mdiIcon(p.Attrs.MDIIcon, "account") }

// UniqueID is the stable entity key for this person.
func (p Person) UniqueID() string { return "person_" + p.ID }

func (p Person) Validate() error {
	if p.ID == "" {
		return fieldError("person.id", "is required")
	}
	if p.DisplayName == "" {
		return fieldError("person.display_name", "is required")
	}
	return nil
}

// Role describes a person's relationship to the home, e.g. resident or
// guest.
type Role struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Attrs       IconAttrs `json:"attrs"`
}

func (r Role) Icon() string { return mdiIcon(r.Attrs.MDIIcon, "") }
