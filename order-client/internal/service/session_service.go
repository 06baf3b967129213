package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tableorder/order-client/internal/domain"
)

var (
	ErrInvalidTableNumber = errors.New("invalid table number")
	ErrInvalidTableCode   = errors.New("scanned code does not contain a table number")
	ErrSessionNotEnded    = errors.New("session cannot end without an active session and a loaded menu")
)

type SessionService struct {
	store   SessionStore
	archive SessionArchive
}

// NewSessionService wires session lifecycle operations. archive may be nil.
func NewSessionService(store SessionStore, archive SessionArchive) *SessionService {
	return &SessionService{store: store, archive: archive}
}

func (s *SessionService) StartSession(tableNumber string) error {
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return ErrInvalidTableNumber
	}
	s.store.StartSession(tableNumber)
	log.Printf("[session] started session at table %s", tableNumber)
	return nil
}

func (s *SessionService) StartSessionFromQRCode(data string) (string, error) {
	table, ok := ParseTableQRCode(data)
	if !ok {
		return "", ErrInvalidTableCode
	}
	return table, s.StartSession(table)
}

// EndSession archives the active session. The archive record is kept in the
// document; storing it in the session archive is best effort.
func (s *SessionService) EndSession(ctx context.Context) (*domain.PastRestaurantSession, error) {
	state, ok := s.store.Apply(EndSession{})
	if !ok {
		return nil, ErrSessionNotEnded
	}

	past := state.PastSessions
	if len(past) == 0 {
		return nil, ErrSessionNotEnded
	}
	ended := past[len(past)-1]

	if s.archive != nil {
		if err := s.archive.SaveSession(ctx, ended); err != nil {
			log.Printf("[session] WARNING: failed to archive session of table %s: %v", ended.TableNumber, err)
			return &ended, fmt.Errorf("archive session: %w", err)
		}
	}
	return &ended, nil
}

// PastSessions lists archived sessions, newest last. An empty restaurantID
// lists all restaurants.
func (s *SessionService) PastSessions(ctx context.Context, restaurantID string) ([]domain.PastRestaurantSession, error) {
	if s.archive != nil {
		return s.archive.ListSessions(ctx, restaurantID)
	}

	sessions := []domain.PastRestaurantSession{}
	for _, past := range s.store.State().PastSessions {
		if restaurantID == "" || past.RestaurantID == restaurantID {
			sessions = append(sessions, past)
		}
	}
	return sessions, nil
}
