package database

import (
	"time"

	"gorm.io/datatypes"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// BannerRecord is a stored banner configuration
type BannerRecord struct {
	ID        uint                                `gorm:"primaryKey" json:"id"`
	Name      string                              `gorm:"size:255;not null;default:''" json:"name"`
	Settings  datatypes.JSONType[banner.Settings] `gorm:"not null" json:"settings"`
	CreatedAt time.Time                           `json:"createdAt"`
	UpdatedAt time.Time                           `json:"updatedAt"`
}

// TableName pins the table name used by migrations
func (BannerRecord) TableName() string {
	return "banner_records"
}

// GetAllModels returns all models for auto-migration
func GetAllModels() []interface{} {
	return []interface{}{
		&BannerRecord{},
	}
}
