package domain

import "time"

// StoredPreset is a user-defined preset persisted across restarts.
type StoredPreset struct {
	Name            string     `gorm:"type:varchar(100);primary_key" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	Aliases         StringList `gorm:"type:jsonb" json:"aliases"`
	Transformations StringList `gorm:"type:jsonb;not null" json:"transformations"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (StoredPreset) TableName() string {
	return "presets"
}
