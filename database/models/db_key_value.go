package database

import "time"

// KeyValue stores one persisted entity (signals batch, subscription, read notifications)
type KeyValue struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (KeyValue) TableName() string {
	return "key_values"
}
