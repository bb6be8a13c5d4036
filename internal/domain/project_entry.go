package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectEntry is one key/value row of the database-backed project store.
// Value holds the serialized project document.
type ProjectEntry struct {
	Key       string         `gorm:"column:key;primaryKey;type:varchar(255)" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ProjectEntry) TableName() string {
	return "ProjectEntries"
}
