package store

import (
	"sync"

	"searchlog/internal/util"
	"searchlog/pkg/domain"
)

// MemoryStore keeps everything in-process. It backs the tests and doubles
// as a SessionStore.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User // key: user ID
	email       map[string]string      // email -> user ID
	queries     []domain.Query         // insertion order
	hits        map[int64][]domain.Hit // query ID -> hits
	sess        map[string]string      // token -> user ID
	nextQueryID int64
	nextHitID   int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		email: make(map[string]string),
		hits:  make(map[int64][]domain.Hit),
		sess:  make(map[string]string),
	}
}

// SaveUser registers a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// CreateQueryWithHits assigns IDs and stores the query with its hits.
func (m *MemoryStore) CreateQueryWithHits(q domain.Query, results []domain.SearchResult) (domain.Query, []domain.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextQueryID++
	q.ID = m.nextQueryID
	m.queries = append(m.queries, q)
	hits := make([]domain.Hit, 0, len(results))
	for _, res := range results {
		m.nextHitID++
		hits = append(hits, domain.Hit{
			ID:          m.nextHitID,
			QueryID:     q.ID,
			Title:       res.Title,
			URL:         res.URL,
			Description: res.Description,
			Rank:        res.Rank,
		})
	}
	m.hits[q.ID] = hits
	return q, hits, nil
}

// RecentQueriesByUser returns the user's queries newest first, bounded to
// limit. Creation-time ties break by descending ID.
func (m *MemoryStore) RecentQueriesByUser(userID string, limit int) ([]domain.Query, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Query, 0, limit)
	// IDs are monotonically increasing, so walking the slice backwards
	// yields created_at DESC with ID DESC tie-breaking.
	for i := len(m.queries) - 1; i >= 0 && len(res) < limit; i-- {
		if m.queries[i].UserID == userID {
			res = append(res, m.queries[i])
		}
	}
	return res, nil
}

// HitsByQuery returns a query's hits in rank order.
func (m *MemoryStore) HitsByQuery(queryID int64) ([]domain.Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hits := m.hits[queryID]
	res := make([]domain.Hit, len(hits))
	copy(res, hits)
	return res, nil
}

// NewSession creates a session token for a user.
func (m *MemoryStore) NewSession(userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := util.NewID()
	m.sess[token] = userID
	return token, nil
}

// GetUserIDByToken resolves a token to a user ID.
func (m *MemoryStore) GetUserIDByToken(token string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uid, ok := m.sess[token]
	return uid, ok, nil
}

// DeleteSession removes a token mapping; deleting twice is not an error.
func (m *MemoryStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, token)
	return nil
}
