package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/mocks"
	"tableorder/order-client/internal/service"
	"tableorder/order-client/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRedisKV(t *testing.T) (*miniredis.Miniredis, *storage.RedisKV) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, storage.NewRedisKV(client, 0)
}

func TestPersistor_RoundTrip(t *testing.T) {
	mr, kv := setupRedisKV(t)
	persistor := service.NewPersistor(kv)

	store := newTestStore()
	settings := service.NewSettingsStore()
	persistor.Attach(store, settings)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		persistor.Run(ctx)
		close(done)
	}()

	store.UpdateOrderItems(menuWith("1", "2"))
	store.StartSession("B20")
	store.AddItemToCart("1")
	store.SetItemInFavorites("2", true)
	settings.SetColorScheme(domain.ColorSchemeDark)

	cancel()
	<-done

	require.True(t, mr.Exists(service.StateKey))
	require.True(t, mr.Exists(service.SettingsKey))

	restored := newTestStore()
	restoredSettings := service.NewSettingsStore()
	require.NoError(t, service.NewPersistor(kv).Load(context.Background(), restored, restoredSettings))

	s := restored.State()
	require.NotNil(t, s.CurrentSession)
	assert.Equal(t, "B20", s.CurrentSession.TableNumber)
	assert.Equal(t, domain.ShoppingCart{"1": 1}, s.CurrentSession.ShoppingCart)
	assert.True(t, service.IsItemFavorite(s, "2"))
	assert.Equal(t, menuWith("1", "2"), s.Menu)
	assert.Equal(t, domain.ColorSchemeDark, restoredSettings.Settings().ColorScheme)
}

func TestPersistor_LoadWithoutData(t *testing.T) {
	_, kv := setupRedisKV(t)
	store := newTestStore()
	settings := service.NewSettingsStore()

	require.NoError(t, service.NewPersistor(kv).Load(context.Background(), store, settings))

	assert.Equal(t, service.InitialState("323"), store.State())
	assert.Equal(t, service.DefaultSettings(), settings.Settings())
}

func TestPersistor_DropsUnsupportedVersion(t *testing.T) {
	mr, kv := setupRedisKV(t)
	payload, err := json.Marshal(map[string]interface{}{
		"version": 0,
		"state":   map[string]interface{}{"selected_store": map[string]string{"id": "999"}},
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set(service.StateKey, string(payload)))

	store := newTestStore()
	require.NoError(t, service.NewPersistor(kv).Load(context.Background(), store, service.NewSettingsStore()))

	assert.Equal(t, "323", store.State().SelectedStore.ID)
	assert.False(t, mr.Exists(service.StateKey))
}

func TestPersistor_IgnoresUnreadableState(t *testing.T) {
	mr, kv := setupRedisKV(t)
	require.NoError(t, mr.Set(service.StateKey, `{"version":1,"state":{"person_count":"many"}}`))

	store := newTestStore()
	require.NoError(t, service.NewPersistor(kv).Load(context.Background(), store, service.NewSettingsStore()))

	assert.Equal(t, service.InitialState("323"), store.State())
}

func TestPersistor_LoadPropagatesStorageErrors(t *testing.T) {
	kv := new(mocks.KV)
	kv.On("Get", mock.Anything, service.StateKey).Return("", false, assert.AnError).Once()

	err := service.NewPersistor(kv).Load(context.Background(), newTestStore(), service.NewSettingsStore())

	assert.ErrorIs(t, err, assert.AnError)
	kv.AssertExpectations(t)
}

func TestPersistor_CoalescesWrites(t *testing.T) {
	kv := new(mocks.KV)
	persistor := service.NewPersistor(kv)
	store := newTestStore()
	persistor.Attach(store, service.NewSettingsStore())

	var written string
	kv.On("Set", mock.Anything, service.StateKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { written = args.String(2) }).
		Return(nil).Once()

	store.StartSession("B20")
	store.AddItemToCart("1")
	store.AddItemToCart("1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	persistor.Run(ctx)

	var envelope struct {
		Version int          `json:"version"`
		State   domain.State `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(written), &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.Equal(t, 2, envelope.State.CurrentSession.ShoppingCart["1"])
	kv.AssertExpectations(t)
}

func TestPersistor_SettingsWrittenImmediately(t *testing.T) {
	mr, kv := setupRedisKV(t)
	settings := service.NewSettingsStore()
	service.NewPersistor(kv).Attach(newTestStore(), settings)

	settings.SetLanguage("de")

	raw, err := mr.Get(service.SettingsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{"color_scheme":"system","language":"de"}}`, raw)
}
