package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tableorder/order-client/internal/domain"
)

const (
	StateKey       = "persist:persistState"
	SettingsKey    = "persist:root"
	persistVersion = 1
)

type envelope[T any] struct {
	Version int `json:"version"`
	State   T   `json:"state"`
}

// Persistor mirrors the session document and the settings into a key/value
// store. Document writes are coalesced: only the latest unsaved document is
// written.
type Persistor struct {
	kv      KV
	timeout time.Duration
	pending chan domain.State
}

func NewPersistor(kv KV) *Persistor {
	return &Persistor{
		kv:      kv,
		timeout: 5 * time.Second,
		pending: make(chan domain.State, 1),
	}
}

// Load restores both slices. Missing or incompatible entries leave defaults.
func (p *Persistor) Load(ctx context.Context, store SessionStore, settings *SettingsStore) error {
	var state envelope[domain.State]
	found, err := p.read(ctx, StateKey, &state)
	if err != nil {
		return err
	}
	if found {
		store.Dispatch(Hydrate{State: state.State})
	}

	var prefs envelope[domain.Settings]
	found, err = p.read(ctx, SettingsKey, &prefs)
	if err != nil {
		return err
	}
	if found {
		settings.Hydrate(prefs.State)
	}
	return nil
}

func (p *Persistor) read(ctx context.Context, key string, target interface{}) (bool, error) {
	raw, ok, err := p.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &header); err != nil || header.Version != persistVersion {
		log.Printf("[persist] WARNING: dropping %s with unsupported version %d", key, header.Version)
		if err := p.kv.Delete(ctx, key); err != nil {
			log.Printf("[persist] WARNING: failed to drop %s: %v", key, err)
		}
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		log.Printf("[persist] WARNING: ignoring unreadable %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Attach subscribes to both stores. Document changes are queued for Run;
// settings are written immediately.
func (p *Persistor) Attach(store SessionStore, settings *SettingsStore) {
	store.Subscribe(p.enqueue)
	settings.Subscribe(func(s domain.Settings) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.write(ctx, SettingsKey, envelope[domain.Settings]{Version: persistVersion, State: s}); err != nil {
			log.Printf("[persist] WARNING: failed to save settings: %v", err)
		}
	})
}

func (p *Persistor) enqueue(s domain.State) {
	select {
	case p.pending <- s:
		return
	default:
	}
	select {
	case <-p.pending:
	default:
	}
	p.pending <- s
}

// Run writes queued documents until ctx is done, then flushes the last one.
func (p *Persistor) Run(ctx context.Context) {
	for {
		select {
		case s := <-p.pending:
			p.saveState(s)
		case <-ctx.Done():
			select {
			case s := <-p.pending:
				p.saveState(s)
			default:
			}
			return
		}
	}
}

func (p *Persistor) saveState(s domain.State) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.write(ctx, StateKey, envelope[domain.State]{Version: persistVersion, State: s}); err != nil {
		log.Printf("[persist] WARNING: failed to save session state: %v", err)
	}
}

func (p *Persistor) write(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, key, string(payload))
}
