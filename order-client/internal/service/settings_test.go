package service_test

import (
	"testing"

	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore(t *testing.T) {
	settings := service.NewSettingsStore()
	assert.Equal(t, service.DefaultSettings(), settings.Settings())

	var seen []domain.Settings
	settings.Subscribe(func(s domain.Settings) { seen = append(seen, s) })

	assert.False(t, settings.SetColorScheme("sepia"))
	assert.Empty(t, seen)

	assert.True(t, settings.SetColorScheme(domain.ColorSchemeDark))
	assert.True(t, settings.SetLanguage("fr"))
	require.Len(t, seen, 2)

	got := settings.Settings()
	assert.Equal(t, domain.ColorSchemeDark, got.ColorScheme)
	require.NotNil(t, got.Language)
	assert.Equal(t, "fr", *got.Language)

	settings.SetLanguage("")
	assert.Nil(t, settings.Settings().Language)

	settings.Reset()
	assert.Equal(t, service.DefaultSettings(), settings.Settings())
}

func TestSettingsStore_HydrateRejectsUnknownScheme(t *testing.T) {
	settings := service.NewSettingsStore()
	lang := "zh"

	settings.Hydrate(domain.Settings{ColorScheme: "neon", Language: &lang})

	got := settings.Settings()
	assert.Equal(t, domain.ColorSchemeSystem, got.ColorScheme)
	assert.Equal(t, "zh", *got.Language)
}

func TestSettingsSurviveResetAll(t *testing.T) {
	store := newTestStore()
	settings := service.NewSettingsStore()
	settings.SetColorScheme(domain.ColorSchemeLight)

	store.ResetAll()

	assert.Equal(t, domain.ColorSchemeLight, settings.Settings().ColorScheme)
}
