package models

// ClientIdentity describes the caller of a booking attempt. It is ephemeral,
// constructed per request, and never stored as a unit; the fraud tracker keeps
// only the device/IP strings it observes.
type ClientIdentity struct {
	UserID    string `json:"user_id"`
	DeviceID  string `json:"device_id"`
	IPAddress string `json:"ip_address"`
}

// Valid reports whether the identity carries the minimum fields a booking
// needs. Device and IP may be synthetic fallbacks but must be present.
func (c ClientIdentity) Valid() bool {
	return c.UserID != "" && c.DeviceID != "" && c.IPAddress != ""
}
