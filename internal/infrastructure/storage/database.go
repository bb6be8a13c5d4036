package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"flipforma-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStore keeps one ProjectEntries row per key. Values must be JSON documents;
// Postgres normalizes them (jsonb), so Get may not return the exact bytes given to Set.
type DatabaseStore struct {
	DB *gorm.DB
}

func (s *DatabaseStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	q := s.DB.WithContext(ctx).Model(&domain.ProjectEntry{})
	if prefix != "" {
		q = q.Where(`"key" LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	}
	if err := q.Order(`"key"`).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *DatabaseStore) Get(ctx context.Context, key string) (string, error) {
	var entry domain.ProjectEntry
	if err := s.DB.WithContext(ctx).Where(`"key" = ?`, key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(entry.Value), nil
}

func (s *DatabaseStore) Set(ctx context.Context, key, value string) error {
	if !json.Valid([]byte(value)) {
		return ErrInvalidValue
	}
	now := time.Now().UTC()
	entry := domain.ProjectEntry{
		Key:       key,
		Value:     datatypes.JSON(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updatedAt"}),
	}).Create(&entry).Error
}

func (s *DatabaseStore) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where(`"key" = ?`, key).Delete(&domain.ProjectEntry{}).Error
}

func (s *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
