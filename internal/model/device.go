package model

// DeviceType categorizes reported devices. The empty value means the
// service did not classify the device.
type DeviceType string

const (
	DeviceTypePhone    DeviceType = "phone"
	DeviceTypeWearable DeviceType = "wearable"
	DeviceTypeHandheld DeviceType = "handheld"
	DeviceTypeLaptop   DeviceType = "laptop"
	DeviceTypeTablet   DeviceType = "tablet"
	DeviceTypeDesktop  DeviceType = "desktop"
	DeviceTypeOther    DeviceType = "other"
)

// Device is one reported device, owned by a Connection.
type Device struct {
	Known       bool           `json:"known"`
	IDs         []string       `json:"ids"`
	DisplayName string         `json:"display_name"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	Type        DeviceType     `json:"type,omitempty"`
	Tracker     bool           `json:"tracker"`
	Personal    bool           `json:"personal"`
}

func (d Device) Validate() error {
	if d.DisplayName == "" {
		return fieldError("device.display_name", "is required")
	}
	switch d.Type {
	case "", DeviceTypePhone, DeviceTypeWearable, DeviceTypeHandheld,
		DeviceTypeLaptop, DeviceTypeTablet, DeviceTypeDesktop, DeviceTypeOther:
		return nil
	default:
		return fieldError("device.type", "is not a recognized device type")
	}
}
