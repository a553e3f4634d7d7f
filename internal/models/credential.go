package models

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Providers for which an API key can be stored.
const (
	ProviderSplitwise = "splitwise"
	ProviderToshl     = "toshl"
)

// Credential is one stored API key for a remote service. The key is an
// opaque bearer token, it is never inspected or validated locally.
type Credential struct {
	DefaultModel
	Provider string `json:"provider" gorm:"uniqueIndex" example:"splitwise"`
	Key      string `json:"key"`
}

var (
	ErrCredentialProviderNotUnique = errors.New("a credential for this provider already exists")
	ErrCredentialUnknownProvider   = errors.New("the provider must be one of: splitwise, toshl")
)

// SetCredential stores or replaces the API key for a provider.
func SetCredential(provider, key string) error {
	if provider != ProviderSplitwise && provider != ProviderToshl {
		return ErrCredentialUnknownProvider
	}

	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"key", "updated_at"}),
	}).Create(&Credential{Provider: provider, Key: key}).Error
}

// CredentialKey returns the stored API key for a provider. An absent
// credential is not an error, it returns the empty string.
func CredentialKey(provider string) (string, error) {
	var credential Credential

	err := DB.Where(&Credential{Provider: provider}).First(&credential).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return credential.Key, nil
}
