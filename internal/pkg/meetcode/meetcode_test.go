//go:build unit

package meetcode_test

import (
	"bytes"
	"testing"

	"mentor-booking/internal/pkg/meetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_NewCode_Shape(t *testing.T) {
	gen := meetcode.NewGenerator("https://meet.example.com/")

	seen := make(map[string]struct{})
	for range 200 {
		code, err := gen.NewCode()
		require.NoError(t, err)
		assert.Regexp(t, meetcode.Pattern, code)
		seen[code] = struct{}{}
	}
	// collisions in 200 draws out of 26^10 would point at a broken source
	assert.Len(t, seen, 200)
}

func TestGenerator_NewCode_Deterministic(t *testing.T) {
	// 0..9 map straight onto a..j; 255 is above the rejection threshold and skipped
	src := bytes.NewReader([]byte{0, 1, 2, 255, 3, 4, 5, 6, 7, 8, 9})
	gen := meetcode.NewGeneratorWithSource("https://meet.example.com", src)

	code, err := gen.NewCode()
	require.NoError(t, err)
	assert.Equal(t, "abc-defg-hij", code)
}

func TestGenerator_NewCode_SourceExhausted(t *testing.T) {
	gen := meetcode.NewGeneratorWithSource("https://meet.example.com", bytes.NewReader([]byte{1, 2}))

	_, err := gen.NewCode()
	assert.Error(t, err)
}

func TestGenerator_JoinURL(t *testing.T) {
	gen := meetcode.NewGenerator("https://meet.example.com/")
	assert.Equal(t, "https://meet.example.com/abc-defg-hij", gen.JoinURL("abc-defg-hij"))
}
