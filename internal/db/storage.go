package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/wrkout/internal/models"
)

// Storage is a generic key-value store over the records table.
// Values are stored as JSON.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a Storage backed by db
func NewStorage(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Save upserts the JSON encoding of value under key
func (s *Storage) Save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	record := models.Record{Key: key, Value: payload}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}

	return nil
}

// Retrieve decodes the value stored under key into out.
// It reports found=false without error when the key is unknown.
func (s *Storage) Retrieve(ctx context.Context, key string, out any) (bool, error) {
	var record models.Record

	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %q: %w", key, err)
	}

	if err := json.Unmarshal(record.Value, out); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}

	return true, nil
}
