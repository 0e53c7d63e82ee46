package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/giftgenius/giftgenius-api/internal/links"
	"github.com/giftgenius/giftgenius-api/internal/models"
	"github.com/giftgenius/giftgenius-api/internal/share"
)

type sharedList struct {
	ID        string         `gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `gorm:"not null"`
	Payload   datatypes.JSON `gorm:"not null"`
}

func (sharedList) TableName() string { return "shared_lists" }

// Image URLs are derived data; the stored payload drops them the same way
// the share token does, and Load re-derives them.
type archivedState struct {
	Profile models.RecipientProfile `json:"profile"`
	Gifts   []models.GiftIdea       `json:"gifts"`
}

type SQLiteStore struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := db.AutoMigrate(&sharedList{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, profile models.RecipientProfile, gifts []models.GiftIdea) (string, error) {
	state := archivedState{Profile: profile, Gifts: make([]models.GiftIdea, len(gifts))}
	for i, g := range gifts {
		g.ImageURL = ""
		state.Gifts[i] = g
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	row := sharedList{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Payload:   datatypes.JSON(payload),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to save shared list: %w", err)
	}
	return row.ID, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*share.SharedState, error) {
	var row sharedList
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shared list: %w", err)
	}

	var state archivedState
	if err := json.Unmarshal(row.Payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode shared list %s: %w", id, err)
	}
	for i := range state.Gifts {
		state.Gifts[i].ImageURL = links.ImageURL(state.Gifts[i].ImageKeyword)
	}
	return &share.SharedState{Profile: state.Profile, Gifts: state.Gifts}, nil
}
