package models_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/splitbridge/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCreateSetsID() {
	credential := models.Credential{Provider: models.ProviderSplitwise, Key: "key"}
	suite.Require().NoError(models.DB.Create(&credential).Error)
	suite.Assert().NotEqual(uuid.Nil, credential.ID)
}

func (suite *TestSuiteStandard) TestCreateKeepsID() {
	id := uuid.New()
	preference := models.Preference{DefaultModel: models.DefaultModel{ID: id}, Name: "theme", Value: "dark"}
	suite.Require().NoError(models.DB.Create(&preference).Error)
	suite.Assert().Equal(id, preference.ID)
}

func (suite *TestSuiteStandard) TestTimestampsUTC() {
	suite.Require().NoError(models.DB.Create(&models.Credential{Provider: models.ProviderToshl, Key: "key"}).Error)

	var credential models.Credential
	suite.Require().NoError(models.DB.First(&credential).Error)
	suite.Assert().Equal(time.UTC, credential.CreatedAt.Location())
	suite.Assert().Equal(time.UTC, credential.UpdatedAt.Location())
}

func (suite *TestSuiteStandard) TestQueryErrorFriendly() {
	var credential models.Credential
	err := models.DB.Where(&models.Credential{Provider: "nothing"}).First(&credential).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
