package models

import "time"

// SchemaMigrationModel records an applied schema migration
type SchemaMigrationModel struct {
	Version   string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"type:varchar(255);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (SchemaMigrationModel) TableName() string {
	return "schema_migrations"
}
