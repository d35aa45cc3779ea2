package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "a"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(8)
	assert.Equal(t, 8, len(s))
	assert.Equal(t, strings.ToLower(s), s)

	assert.Equal(t, "", RandomAlphabetString(0))
}

func TestEstimateReadingTime(t *testing.T) {
	assert.Equal(t, 0, EstimateReadingTime(""))
	assert.Equal(t, 1, EstimateReadingTime("a few words only"))
	assert.Equal(t, 1, EstimateReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, EstimateReadingTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 3, EstimateReadingTime(strings.Repeat("word ", 450)))
}
