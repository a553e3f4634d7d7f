package models

import (
	"errors"

	"gorm.io/gorm/clause"
)

// PreferenceSelectedTag holds the id of the tag that is automatically
// applied to every submitted entry.
const PreferenceSelectedTag = "selected_tag"

// Preference is a single named setting.
type Preference struct {
	DefaultModel
	Name  string `json:"name" gorm:"uniqueIndex" example:"selected_tag"`
	Value string `json:"value"`
}

var ErrPreferenceNameNotUnique = errors.New("a preference with this name already exists")

// SetPreference stores or replaces a preference value.
func SetPreference(name, value string) error {
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Preference{Name: name, Value: value}).Error
}

// GetPreference returns the value of a preference. An unset preference is
// not an error, it returns the empty string.
func GetPreference(name string) (string, error) {
	var preference Preference

	err := DB.Where(&Preference{Name: name}).First(&preference).Error
	if errors.Is(err, ErrResourceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return preference.Value, nil
}
