package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// ErrNotFound is returned when a banner record does not exist
var ErrNotFound = errors.New("banner not found")

// BannerService handles banner record database operations
type BannerService struct {
	db *gorm.DB
}

// NewBannerService creates a new banner service
func NewBannerService(db *gorm.DB) *BannerService {
	return &BannerService{db: db}
}

// CreateBanner stores a banner configuration. A zero createdAt is replaced
// by the current time.
func (bs *BannerService) CreateBanner(ctx context.Context, name string, settings banner.Settings, createdAt time.Time) (*BannerRecord, error) {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	record := &BannerRecord{
		Name:      name,
		Settings:  datatypes.NewJSONType(settings.Clamp()),
		CreatedAt: createdAt,
	}

	if err := bs.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	logging.InfoWithComponent(logging.ComponentBanners, "Created banner record", "id", record.ID, "name", name)
	return record, nil
}

// ListBanners returns all banner records in creation order
func (bs *BannerService) ListBanners(ctx context.Context) ([]BannerRecord, error) {
	var records []BannerRecord
	if err := bs.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return records, nil
}

// GetBanner returns a banner record by id
func (bs *BannerService) GetBanner(ctx context.Context, id uint) (*BannerRecord, error) {
	var record BannerRecord
	err := bs.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get banner %d: %w", id, err)
	}
	return &record, nil
}

// UpdateBanner shallow-merges patch into the stored settings and replaces
// the name when one is given.
func (bs *BannerService) UpdateBanner(ctx context.Context, id uint, name *string, patch []byte) (*BannerRecord, error) {
	var updated *BannerRecord
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record BannerRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrNotFound, id)
			}
			return err
		}

		if len(patch) > 0 {
			merged, err := banner.Merge(record.Settings.Data(), patch)
			if err != nil {
				return err
			}
			record.Settings = datatypes.NewJSONType(merged)
		}
		if name != nil {
			record.Name = *name
		}

		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		updated = &record
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, banner.ErrInvalidPatch) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update banner %d: %w", id, err)
	}
	return updated, nil
}

// DeleteBanner removes a banner record
func (bs *BannerService) DeleteBanner(ctx context.Context, id uint) error {
	result := bs.db.WithContext(ctx).Delete(&BannerRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete banner %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	logging.InfoWithComponent(logging.ComponentBanners, "Deleted banner record", "id", id)
	return nil
}

// CountBanners returns the number of stored records
func (bs *BannerService) CountBanners(ctx context.Context) (int64, error) {
	var count int64
	err := bs.db.WithContext(ctx).Model(&BannerRecord{}).Count(&count).Error
	return count, err
}
