package store

import "searchlog/pkg/domain"

// Store defines persistence operations for users, queries, and hits.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// queries & hits
	CreateQueryWithHits(q domain.Query, results []domain.SearchResult) (domain.Query, []domain.Hit, error)
	RecentQueriesByUser(userID string, limit int) ([]domain.Query, error)
	HitsByQuery(queryID int64) ([]domain.Hit, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
