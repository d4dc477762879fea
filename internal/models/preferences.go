package models

const (
	ThemeDark  = "darkMode"
	ThemeLight = "lightMode"

	AuthHardware = "hardware-auth"
	AuthPinCode  = "pincode"
	AuthNone     = "none"
)

// Preferences is the singleton settings record.
type Preferences struct {
	Currency             string `json:"currency"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	ScanCoinbase         bool   `json:"scanCoinbase"`
	LimitData            bool   `json:"limitData"`
	Theme                string `json:"theme"`
	AuthConfirmation     bool   `json:"authConfirmation"`
	AutoOptimize         bool   `json:"autoOptimize"`
	AuthMethod           string `json:"authMethod"`
	// Node is a daemon connection string, "host:port:ssl".
	Node     string `json:"node"`
	Language string `json:"language"`
}

// DefaultPreferences returns the values a fresh store is seeded with.
func DefaultPreferences(node string) Preferences {
	return Preferences{
		Currency:             "usd",
		NotificationsEnabled: true,
		ScanCoinbase:         false,
		LimitData:            false,
		Theme:                ThemeDark,
		AuthConfirmation:     false,
		AutoOptimize:         true,
		AuthMethod:           AuthHardware,
		Node:                 node,
	}
}
