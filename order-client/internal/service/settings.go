package service

import (
	"sync"

	"tableorder/order-client/internal/domain"
)

func DefaultSettings() domain.Settings {
	return domain.Settings{ColorScheme: domain.ColorSchemeSystem}
}

// SettingsStore holds app preferences. They live apart from the session
// document and survive ResetAll.
type SettingsStore struct {
	mu        sync.RWMutex
	settings  domain.Settings
	listeners []func(domain.Settings)
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: DefaultSettings()}
}

func (s *SettingsStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsStore) Subscribe(fn func(domain.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SettingsStore) SetColorScheme(scheme domain.ColorScheme) bool {
	if !scheme.Valid() {
		return false
	}
	return s.update(func(settings *domain.Settings) {
		settings.ColorScheme = scheme
	})
}

func (s *SettingsStore) SetLanguage(language string) bool {
	return s.update(func(settings *domain.Settings) {
		if language == "" {
			settings.Language = nil
			return
		}
		settings.Language = &language
	})
}

func (s *SettingsStore) Reset() bool {
	return s.update(func(settings *domain.Settings) {
		*settings = DefaultSettings()
	})
}

func (s *SettingsStore) Hydrate(settings domain.Settings) bool {
	if !settings.ColorScheme.Valid() {
		settings.ColorScheme = domain.ColorSchemeSystem
	}
	return s.update(func(current *domain.Settings) {
		*current = settings
	})
}

func (s *SettingsStore) update(fn func(*domain.Settings)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	s.settings = next
	for _, listener := range s.listeners {
		listener(next)
	}
	return true
}
