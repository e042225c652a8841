package models_test

import (
	"strings"

	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestMachineTrimWhitespace() {
	name := "  CNC Mill 3 \t"
	note := " Maintenance due    "

	machine := suite.createTestMachine(models.Machine{Name: name, Note: note})

	assert.Equal(suite.T(), strings.TrimSpace(name), machine.Name)
	assert.Equal(suite.T(), strings.TrimSpace(note), machine.Note)
}

func (suite *TestSuiteStandard) TestMachineNameRequired() {
	err := models.DB.Create(&models.Machine{}).Error
	assert.ErrorIs(suite.T(), err, models.ErrNameRequired)
}

func (suite *TestSuiteStandard) TestMachineFactoryIntegrity() {
	t := suite.T()

	// A machine does not need a factory
	_ = suite.createTestMachine(models.Machine{})

	// The factory has to exist when one is referenced
	missing := uuid.New()
	err := models.DB.Create(&models.Machine{Name: "Orphan", FactoryID: &missing}).Error
	assert.ErrorIs(t, err, models.ErrResourceNotFound)

	factory := suite.createTestFactory(models.Factory{})
	machine := suite.createTestMachine(models.Machine{FactoryID: &factory.ID})

	// The same check runs when the factory is changed
	err = models.DB.Model(&machine).Updates(models.Machine{FactoryID: &missing}).Error
	assert.ErrorIs(t, err, models.ErrResourceNotFound)
}
