package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAddress(t *testing.T) {
	valid := []string{
		"dana@example.com",
		"dana.smith@example.co.uk",
		"dana+tag@example.com",
	}
	for _, addr := range valid {
		assert.True(t, IsValidAddress(addr), addr)
	}

	invalid := []string{
		"",
		"dana",
		"dana@",
		"@example.com",
		"dana@example.com extra",
		"Dana <dana@example.com>",
	}
	for _, addr := range invalid {
		assert.False(t, IsValidAddress(addr), addr)
	}
}
