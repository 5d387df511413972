package session

import (
	"fmt"

	"steamdocs/internal/request"
	"steamdocs/internal/store"
)

type Field string

const (
	FieldAPIKey      Field = store.KeyWebAPIKey
	FieldAccessToken Field = store.KeyAccessToken
	FieldSteamID     Field = store.KeySteamID
	FieldFormat      Field = store.KeyFormat
)

// Watcher runs after a user-data field changes.
type Watcher func(s *Session, value string) error

func defaultWatchers() map[Field][]Watcher {
	return map[Field][]Watcher{
		FieldFormat:      {persist(FieldFormat)},
		FieldAPIKey:      {persistIfValid(FieldAPIKey, request.ValidAPIKey)},
		FieldAccessToken: {persistIfValid(FieldAccessToken, request.ValidAccessToken)},
		FieldSteamID:     {persistIfValid(FieldSteamID, request.ValidSteamID), fillSteamID},
	}
}

// Watch appends w to the watchers of f.
func (s *Session) Watch(f Field, w Watcher) {
	s.watchers[f] = append(s.watchers[f], w)
}

// SetField stores value, invalid or not, then runs the field's watchers in
// order. Watcher errors are logged and the first one is returned.
func (s *Session) SetField(f Field, value string) error {
	switch f {
	case FieldAPIKey:
		s.user.APIKey = value
	case FieldAccessToken:
		s.user.AccessToken = value
	case FieldSteamID:
		s.user.SteamID = value
	case FieldFormat:
		s.user.Format = value
	default:
		return fmt.Errorf("unknown field %q", f)
	}

	var first error
	for _, w := range s.watchers[f] {
		if err := w(s, value); err != nil {
			s.logger.Warn().Err(err).Str("field", string(f)).Msg("field watcher failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func persist(f Field) Watcher {
	return func(s *Session, value string) error {
		return s.store.Set(string(f), value)
	}
}

// persistIfValid keeps the stored copy only while value is valid.
func persistIfValid(f Field, valid func(string) bool) Watcher {
	return func(s *Session, value string) error {
		if valid(value) {
			return s.store.Set(string(f), value)
		}
		return s.store.Remove(string(f))
	}
}

func fillSteamID(s *Session, value string) error {
	if request.ValidSteamID(value) {
		n := s.overlay.FillSteamID(s.cat, value)
		s.logger.Debug().Int("parameters", n).Msg("steamid filled")
	}
	return nil
}
