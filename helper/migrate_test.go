package helper_test

import (
	"testing"

	"umrahcrm/config"
	"umrahcrm/helper"

	"github.com/stretchr/testify/assert"
)

func TestRun_UnknownAction(t *testing.T) {
	err := helper.Run(&config.Config{}, "sideways")

	assert.ErrorIs(t, err, helper.ErrUnknownAction)
}

func TestActions(t *testing.T) {
	for _, action := range []string{"up", "down", "step-up", "drop", "version"} {
		assert.Contains(t, helper.Actions, action)
	}
}
