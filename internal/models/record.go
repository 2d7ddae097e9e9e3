package models

import "time"

// Record is a single key-value row holding a JSON payload
type Record struct {
	Key       string    `gorm:"primaryKey;column:record_key" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
