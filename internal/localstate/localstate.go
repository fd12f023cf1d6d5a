// Package localstate persists the session across restarts, standing in for
// the browser's durable key/value storage.
package localstate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/liquorlane/liquorfront/internal/models"
)

// One row holds identity and both credentials so the pair is written and
// cleared atomically. sessionID pins it.
const sessionID = 1

type sessionRow struct {
	ID           uint   `gorm:"primaryKey"`
	CurrentUser  string `gorm:"not null"`
	Token        string `gorm:"not null"`
	RefreshToken string
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("migrate local state: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveSession(sess models.Session, token, refreshToken string) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	row := sessionRow{
		ID:           sessionID,
		CurrentUser:  string(data),
		Token:        token,
		RefreshToken: refreshToken,
	}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session, or a nil session when nothing
// is stored.
func (s *Store) LoadSession() (*models.Session, string, string, error) {
	var row sessionRow
	if err := s.db.First(&row, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", nil
		}
		return nil, "", "", fmt.Errorf("load session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(row.CurrentUser), &sess); err != nil {
		return nil, "", "", fmt.Errorf("decode stored session: %w", err)
	}
	return &sess, row.Token, row.RefreshToken, nil
}

func (s *Store) ClearSession() error {
	if err := s.db.Delete(&sessionRow{}, sessionID).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("local state db: %w", err)
	}
	return sqlDB.Close()
}
