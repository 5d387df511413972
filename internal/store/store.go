// Package store persists small user settings (credentials, output format,
// favorites) as string key/value pairs.
package store

const (
	KeyWebAPIKey   = "webapi_key"
	KeyAccessToken = "access_token"
	KeySteamID     = "steamid"
	KeyFormat      = "format"
	KeyFavorites   = "favorites"
)

// Store is a string key/value store. Get reports absence with ok == false.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// MemoryStore keeps values in a map; nothing survives the process.
type MemoryStore struct {
	values map[string]string
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	delete(m.values, key)
	m.writes++
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Writes counts Set and Remove calls.
func (m *MemoryStore) Writes() int {
	return m.writes
}
