package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"min=1,max=3"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "x", Level: 2}))

	err := Struct(sample{Level: 7})
	var fe *FieldsError
	require.True(t, errors.As(err, &fe), "err = %v", err)
	assert.Len(t, fe.Fields, 2)
	assert.Contains(t, fe.Fields, "sample.name")
	assert.Contains(t, fe.Fields, "sample.level")
	assert.Contains(t, err.Error(), "invalid fields")
}
