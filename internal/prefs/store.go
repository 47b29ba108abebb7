package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// fileModel is the on-disk TOML shape. Timezone profiles are stored as a
// serialized JSON array string, matching the backup interchange records.
type fileModel struct {
	Theme           string `toml:"theme"`
	DateFormat      string `toml:"date_format"`
	TimeFormat24h   bool   `toml:"time_format_24h"`
	ConfirmDeletion bool   `toml:"confirm_deletion"`

	TimezoneEnabled   bool   `toml:"timezone_enabled"`
	MainTimezone      string `toml:"main_timezone"`
	SelectedProfileID string `toml:"selected_profile_id"`
	TimezoneProfiles  string `toml:"timezone_profiles"`

	NotificationsEnabled bool `toml:"notifications_enabled"`
	NotifyDaily          bool `toml:"notify_daily"`
	NotifyCustom         bool `toml:"notify_custom"`
	NotifySingle         bool `toml:"notify_single"`

	HapticsEnabled bool `toml:"haptics_enabled"`
	UndoEnabled    bool `toml:"undo_enabled"`
	UndoDuration   int  `toml:"undo_duration"`
}

// Store is the file-backed preference store. Reads always succeed; fields
// that fail to deserialize fall back to their defaults.
type Store struct {
	path string

	mu      sync.Mutex
	current Preferences
	subs    map[int]chan Preferences
	nextSub int
}

// Open loads preferences from path, starting from defaults when the file
// is missing or partially corrupted.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		current: Default(),
		subs:    make(map[int]chan Preferences),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	// Overlay the file on top of defaults so missing keys keep their
	// default values.
	fm := toFileModel(Default())
	if err := toml.Unmarshal(data, &fm); err != nil {
		// Corrupted file: keep defaults rather than failing the load.
		return s, nil
	}
	s.current = fromFileModel(fm)
	return s, nil
}

func fromFileModel(fm fileModel) Preferences {
	p := Default()
	p.Theme = ParseTheme(fm.Theme)
	if fm.DateFormat != "" {
		p.DateFormat = fm.DateFormat
	}
	p.TimeFormat24h = fm.TimeFormat24h
	p.ConfirmDeletion = fm.ConfirmDeletion
	p.TimezoneEnabled = fm.TimezoneEnabled
	if fm.MainTimezone != "" {
		p.MainTimezone = fm.MainTimezone
	}
	p.SelectedProfileID = fm.SelectedProfileID
	p.TimezoneProfiles = parseProfiles(fm.TimezoneProfiles)
	p.NotificationsEnabled = fm.NotificationsEnabled
	p.NotifyDaily = fm.NotifyDaily
	p.NotifyCustom = fm.NotifyCustom
	p.NotifySingle = fm.NotifySingle
	p.HapticsEnabled = fm.HapticsEnabled
	p.UndoEnabled = fm.UndoEnabled
	if fm.UndoDuration > 0 {
		p.UndoDuration = fm.UndoDuration
	}
	return p
}

func toFileModel(p Preferences) fileModel {
	return fileModel{
		Theme:                string(p.Theme),
		DateFormat:           p.DateFormat,
		TimeFormat24h:        p.TimeFormat24h,
		ConfirmDeletion:      p.ConfirmDeletion,
		TimezoneEnabled:      p.TimezoneEnabled,
		MainTimezone:         p.MainTimezone,
		SelectedProfileID:    p.SelectedProfileID,
		TimezoneProfiles:     serializeProfiles(p.TimezoneProfiles),
		NotificationsEnabled: p.NotificationsEnabled,
		NotifyDaily:          p.NotifyDaily,
		NotifyCustom:         p.NotifyCustom,
		NotifySingle:         p.NotifySingle,
		HapticsEnabled:       p.HapticsEnabled,
		UndoEnabled:          p.UndoEnabled,
		UndoDuration:         p.UndoDuration,
	}
}

func parseProfiles(raw string) []TimezoneProfile {
	if raw == "" {
		return nil
	}
	var profiles []TimezoneProfile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		return nil
	}
	return profiles
}

func serializeProfiles(profiles []TimezoneProfile) string {
	if len(profiles) == 0 {
		return "[]"
	}
	data, err := json.Marshal(profiles)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Current returns the current preference value.
func (s *Store) Current() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Watch emits the current value immediately and again after every update,
// until ctx is cancelled. Slow receivers only ever see the latest value.
func (s *Store) Watch(ctx context.Context) <-chan Preferences {
	ch := make(chan Preferences, 1)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.current
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}()
	return ch
}

// Update applies a field-level mutation, persists the result and notifies
// watchers.
func (s *Store) Update(mutate func(*Preferences)) error {
	s.mu.Lock()
	p := s.current
	mutate(&p)
	s.current = p
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- p
	}
	s.mu.Unlock()
	return s.save(p)
}

// SetTheme updates the colour theme.
func (s *Store) SetTheme(t AppTheme) error {
	return s.Update(func(p *Preferences) { p.Theme = t })
}

// SetTimezoneEnabled toggles the timezone feature.
func (s *Store) SetTimezoneEnabled(enabled bool) error {
	return s.Update(func(p *Preferences) { p.TimezoneEnabled = enabled })
}

// SelectProfile switches the active timezone profile; empty selects the
// main timezone.
func (s *Store) SelectProfile(id string) error {
	return s.Update(func(p *Preferences) { p.SelectedProfileID = id })
}

// SetProfiles replaces the stored timezone profile list.
func (s *Store) SetProfiles(profiles []TimezoneProfile) error {
	return s.Update(func(p *Preferences) { p.TimezoneProfiles = profiles })
}

// SetNotificationsEnabled toggles the global notification gate.
func (s *Store) SetNotificationsEnabled(enabled bool) error {
	return s.Update(func(p *Preferences) { p.NotificationsEnabled = enabled })
}

func (s *Store) save(p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	data, err := toml.Marshal(toFileModel(p))
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
