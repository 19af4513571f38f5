package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeForIndex(t *testing.T) {
	assert.Equal(t, ThemeForIndex(0), ThemeForIndex(len(cardThemes)))
	assert.Equal(t, ThemeForIndex(1), ThemeForIndex(1))
	assert.NotEqual(t, ThemeForIndex(0), ThemeForIndex(1))
	assert.Equal(t, ThemeForIndex(3), ThemeForIndex(-3))
}
