package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID              string `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// QueryModel keeps the owner nullable: the schema admits ownerless queries
// even though the auth guard on search makes that path unreachable today.
type QueryModel struct {
	ID        int64      `gorm:"primaryKey"`
	QueryText string     `gorm:"type:text;not null"`
	UserID    *string    `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null;index"`
	Hits      []HitModel `gorm:"foreignKey:QueryID;constraint:OnDelete:CASCADE"`
}

func (QueryModel) TableName() string { return "queries" }

type HitModel struct {
	ID          int64  `gorm:"primaryKey"`
	QueryID     int64  `gorm:"not null;index"`
	Title       string `gorm:"type:text;not null"`
	URL         string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	Rank        int    `gorm:"not null"`
}

func (HitModel) TableName() string { return "hits" }
