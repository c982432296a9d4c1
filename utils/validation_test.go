package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAccount struct {
	Login     string `json:"login" validate:"required,max=8"`
	FirstName string `json:"firstName" validate:"omitempty,min=2"`
	Handle    string `json:"handle" validate:"omitempty,excludes=:"`
	Internal  string `json:"-" validate:"omitempty,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(&testAccount{Login: "john", FirstName: "John"}))
	})

	t.Run("missing required field reports json name", func(t *testing.T) {
		err := ValidateStruct(&testAccount{})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "login is required", fields["login"])
		assert.Equal(t, "login is required", err.Error())
	})

	t.Run("max and min", func(t *testing.T) {
		err := ValidateStruct(&testAccount{Login: "toolonglogin", FirstName: "J"})
		require.Error(t, err)

		fields := GetValidationFields(err)
		assert.Equal(t, "login must be at most 8", fields["login"])
		assert.Equal(t, "firstName must be at least 2", fields["firstName"])
		// message is the first field in name order
		assert.Equal(t, "firstName must be at least 2", err.Error())
	})

	t.Run("excludes", func(t *testing.T) {
		err := ValidateStruct(&testAccount{Login: "john", Handle: "ann:lee"})
		require.Error(t, err)
		assert.Equal(t, "handle must not contain ':'", GetValidationFields(err)["handle"])
	})

	t.Run("dash json tag falls back to field name", func(t *testing.T) {
		err := ValidateStruct(&testAccount{Login: "john", Internal: "c"})
		require.Error(t, err)
		assert.Equal(t, "Internal must be one of: a b", GetValidationFields(err)["Internal"])
	})
}

func TestValidateVar(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateVar("2024-01-10", "dateFrom", "datetime=2006-01-02"))
	})

	t.Run("invalid uses the given name", func(t *testing.T) {
		err := ValidateVar("2024/01/10", "dateFrom", "datetime=2006-01-02")
		require.Error(t, err)
		assert.Equal(t, "dateFrom must match the format 2006-01-02", err.Error())
		assert.Contains(t, GetValidationFields(err), "dateFrom")
	})

	t.Run("uuid", func(t *testing.T) {
		err := ValidateVar("abc", "id", "uuid")
		require.Error(t, err)
		assert.Equal(t, "id must be a valid UUID", err.Error())
	})
}

func TestValidationHelpers(t *testing.T) {
	assert.False(t, IsValidationError(assert.AnError))
	assert.Nil(t, GetValidationFields(assert.AnError))
}
