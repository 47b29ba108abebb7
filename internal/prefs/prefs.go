// Package prefs holds the user preference model and its file-backed store.
package prefs

import "time"

// AppTheme selects the colour theme.
type AppTheme string

const (
	ThemeSystem AppTheme = "System"
	ThemeLight  AppTheme = "Light"
	ThemeDark   AppTheme = "Dark"
)

// ParseTheme returns the theme for a stored name, falling back to the
// system default on anything unrecognised rather than failing the load.
func ParseTheme(name string) AppTheme {
	switch AppTheme(name) {
	case ThemeSystem, ThemeLight, ThemeDark:
		return AppTheme(name)
	default:
		return ThemeSystem
	}
}

// TimezoneProfile is a named alternate display timezone.
type TimezoneProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TimezoneID string `json:"timezoneId"`
}

// Preferences is the process-wide configuration value. A default is always
// available; the store never fails a read into an unusable state.
type Preferences struct {
	Theme           AppTheme
	DateFormat      string
	TimeFormat24h   bool
	ConfirmDeletion bool

	TimezoneEnabled   bool
	MainTimezone      string
	SelectedProfileID string
	TimezoneProfiles  []TimezoneProfile

	NotificationsEnabled bool
	NotifyDaily          bool
	NotifyCustom         bool
	NotifySingle         bool

	HapticsEnabled bool
	UndoEnabled    bool
	UndoDuration   int // seconds
}

// Default returns the always-available baseline preferences.
func Default() Preferences {
	return Preferences{
		Theme:                ThemeSystem,
		DateFormat:           "02/01/2006",
		TimeFormat24h:        true,
		ConfirmDeletion:      true,
		TimezoneEnabled:      false,
		MainTimezone:         time.Local.String(),
		NotificationsEnabled: true,
		NotifyDaily:          true,
		NotifyCustom:         true,
		NotifySingle:         true,
		HapticsEnabled:       true,
		UndoEnabled:          true,
		UndoDuration:         5,
	}
}
