package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

type settingModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (settingModel) TableName() string { return "settings" }

// Get returns the value for key; found is false when unset.
func (r *SettingsRepository) Get(ctx context.Context, key string) (value string, found bool, err error) {
	var m settingModel
	tx := r.db.WithContext(ctx).First(&m, "key = ?", key)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, tx.Error
	}
	return m.Value, true, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	m := settingModel{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&m).Error
}
