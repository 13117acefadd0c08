package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"searchlog/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &QueryModel{}, &HitModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser persists a new user. The unique index on email backstops the
// application-level duplicate check.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Create(&model).Error
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateQueryWithHits inserts the query row and its hit rows in a single
// transaction so the composite write is atomic. Ranks are stored verbatim.
func (s *GormStore) CreateQueryWithHits(q domain.Query, results []domain.SearchResult) (domain.Query, []domain.Hit, error) {
	model := queryToModel(q)
	hitModels := make([]HitModel, 0, len(results))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		for _, res := range results {
			hitModels = append(hitModels, HitModel{
				QueryID:     model.ID,
				Title:       res.Title,
				URL:         res.URL,
				Description: res.Description,
				Rank:        res.Rank,
			})
		}
		if len(hitModels) == 0 {
			return nil
		}
		return tx.Create(&hitModels).Error
	})
	if err != nil {
		return domain.Query{}, nil, err
	}
	hits := make([]domain.Hit, 0, len(hitModels))
	for _, m := range hitModels {
		hits = append(hits, hitFromModel(m))
	}
	return queryFromModel(model), hits, nil
}

// RecentQueriesByUser returns the user's newest queries first, bounded to
// limit. Creation-time ties break by descending ID (insertion order).
func (s *GormStore) RecentQueriesByUser(userID string, limit int) ([]domain.Query, error) {
	var models []QueryModel
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Query, 0, len(models))
	for _, m := range models {
		res = append(res, queryFromModel(m))
	}
	return res, nil
}

// HitsByQuery returns a query's hits in rank order.
func (s *GormStore) HitsByQuery(queryID int64) ([]domain.Hit, error) {
	var models []HitModel
	if err := s.db.Where("query_id = ?", queryID).Order("rank ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Hit, 0, len(models))
	for _, m := range models {
		res = append(res, hitFromModel(m))
	}
	return res, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:              u.ID,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:              m.ID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		ProfileImageURL: m.ProfileImageURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func queryToModel(q domain.Query) QueryModel {
	model := QueryModel{
		ID:        q.ID,
		QueryText: q.QueryText,
		CreatedAt: q.CreatedAt,
	}
	if q.UserID != "" {
		userID := q.UserID
		model.UserID = &userID
	}
	return model
}

func queryFromModel(m QueryModel) domain.Query {
	q := domain.Query{
		ID:        m.ID,
		QueryText: m.QueryText,
		CreatedAt: m.CreatedAt,
	}
	if m.UserID != nil {
		q.UserID = *m.UserID
	}
	return q
}

func hitFromModel(m HitModel) domain.Hit {
	return domain.Hit{
		ID:          m.ID,
		QueryID:     m.QueryID,
		Title:       m.Title,
		URL:         m.URL,
		Description: m.Description,
		Rank:        m.Rank,
	}
}
