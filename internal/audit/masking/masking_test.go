package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "b****@example.com", MaskEmail("budi@example.com"))
	assert.Equal(t, "****", MaskEmail("bad"))
	assert.Equal(t, "", MaskEmail(""))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "****5678", MaskPhone("+62 812-1234-5678"))
}

func TestMaskMetadata(t *testing.T) {
	got := MaskMetadata(map[string]any{
		"name":         "Budi",
		"email":        "budi@example.com",
		"phone_number": "081234567890",
		"amount":       int64(150000),
		"nested":       map[string]any{"password": "hunter22"},
		" ":            "dropped",
	})

	assert.Equal(t, "Budi", got["name"])
	assert.Equal(t, "b****@example.com", got["email"])
	assert.Equal(t, "****7890", got["phone_number"])
	assert.Equal(t, int64(150000), got["amount"])
	assert.Equal(t, map[string]any{"password": "****"}, got["nested"])
	assert.NotContains(t, got, " ")
	assert.Nil(t, MaskMetadata(nil))
}
