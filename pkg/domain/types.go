package domain

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// Query is a single logged search submission. UserID is empty for
// ownerless queries; the schema keeps the owner nullable even though
// the auth guard on /api/search never produces one today.
type Query struct {
	ID        int64     `json:"id"`
	QueryText string    `json:"queryText"`
	UserID    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hit is one synthesized result persisted against its originating query.
// Rank is the 1-based position within the query's result set.
type Hit struct {
	ID          int64  `json:"id"`
	QueryID     int64  `json:"queryId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Rank        int    `json:"rank"`
}

// SearchResult is the wire shape of a synthesized result before it is
// persisted as a Hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Rank        int    `json:"rank"`
}
