package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"searchlog/internal/config"
	"searchlog/internal/search"
	"searchlog/internal/store"
	"searchlog/pkg/auth"
	"searchlog/pkg/domain"
)

// historyLimit bounds the number of queries returned by History.
const historyLimit = 20

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL     string
	SessionSecret   string
	SessionTTL      time.Duration
	SessionStrategy string
	RedisAddr       string
	RedisPassword   string

	// Store and Sessions override the defaults; used by tests.
	Store    store.Store
	Sessions store.SessionStore
}

// App is the core application service wiring storage, sessions, and the
// search pipeline together.
type App struct {
	store    store.Store
	sessions store.SessionStore
}

// New constructs the application with database storage and session management.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch cfg.SessionStrategy {
		case config.SessionStrategyRedis:
			if strings.TrimSpace(cfg.RedisAddr) == "" {
				return nil, fmt.Errorf("redisAddr is required for the redis session strategy")
			}
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		case config.SessionStrategyJWT, "":
			if strings.TrimSpace(cfg.SessionSecret) == "" {
				return nil, fmt.Errorf("session secret required")
			}
			sessionStore = store.NewJWTSessionStore(cfg.SessionSecret, cfg.SessionTTL)
		default:
			return nil, fmt.Errorf("unknown session strategy %q", cfg.SessionStrategy)
		}
	}

	return &App{
		store:    dataStore,
		sessions: sessionStore,
	}, nil
}

// Register creates a new user and starts a session for it. The password is
// stored only as a salted one-way hash.
func (a *App) Register(email, password, firstName, lastName string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyRegistered
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("start session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and starts a session.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || strings.TrimSpace(user.PasswordHash) == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("start session: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves a user from a session token. It reports false when
// no session is active or the referenced user no longer exists.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// Logout ends the session bound to token. Ending an already-ended session
// is not an error.
func (a *App) Logout(token string) error {
	if token == "" {
		return nil
	}
	return a.sessions.DeleteSession(token)
}

// Search logs the query, synthesizes its results, and records them as hits
// in one atomic store write.
func (a *App) Search(userID, text string) (domain.Query, []domain.SearchResult, error) {
	if text == "" {
		return domain.Query{}, nil, ErrQueryRequired
	}
	results := search.Synthesize(text)
	q := domain.Query{
		QueryText: text,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	q, _, err := a.store.CreateQueryWithHits(q, results)
	if err != nil {
		return domain.Query{}, nil, fmt.Errorf("persist query: %w", err)
	}
	return q, results, nil
}

// History returns the user's most recent queries, newest first, bounded to
// a fixed count. A user with no queries gets an empty slice, not an error.
func (a *App) History(userID string) ([]domain.Query, error) {
	queries, err := a.store.RecentQueriesByUser(userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if queries == nil {
		queries = []domain.Query{}
	}
	return queries, nil
}

// QueryHits returns the persisted hits for a query in rank order.
func (a *App) QueryHits(queryID int64) ([]domain.Hit, error) {
	return a.store.HitsByQuery(queryID)
}
