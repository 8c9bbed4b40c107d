package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientDefaultsModel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultModel, NewClient("").model)
	assert.Equal(t, DefaultModel, NewClient("   ").model)
	assert.Equal(t, "gemini-2.0-flash", NewClient("gemini-2.0-flash").model)
}
